package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/shoplist/internal/database/repository"
)

var (
	milk  = repository.Item{ID: 1, Name: "Milk"}
	eggs  = repository.Item{ID: 2, Name: "Eggs"}
	bread = repository.Item{ID: 3, Name: "Bread"}
)

func newTestRenderer(removed *[]repository.Item) *Renderer {
	r := NewRenderer(func(it repository.Item) { *removed = append(*removed, it) })
	r.SetSize(40, 10)
	return r
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestRendererDrawsOneRowPerItem(t *testing.T) {
	var removed []repository.Item
	r := newTestRenderer(&removed)
	r.SetItems([]repository.Item{milk, eggs})

	lines := strings.Split(r.View(), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	require.Equal(t, "> "+removeGlyph+" Milk", strings.TrimRight(lines[0], " "))
	require.Equal(t, "  "+removeGlyph+" Eggs", strings.TrimRight(lines[1], " "))
}

func TestRendererEmptyListDrawsNothing(t *testing.T) {
	var removed []repository.Item
	r := newTestRenderer(&removed)
	r.SetItems(nil)
	require.Empty(t, r.View())
	_, ok := r.selected()
	require.False(t, ok)
}

func TestRendererRemoveKeyActivatesSelectedRow(t *testing.T) {
	var removed []repository.Item
	r := newTestRenderer(&removed)
	r.SetItems([]repository.Item{milk, eggs, bread})

	r.Update(tea.KeyMsg{Type: tea.KeyDown})
	sel, ok := r.selected()
	require.True(t, ok)
	require.Equal(t, eggs, sel)

	r.Update(keyRunes("d"))
	require.Equal(t, []repository.Item{eggs}, removed)
	// the renderer never edits its own rows; the store drives that
	require.Equal(t, []repository.Item{milk, eggs, bread}, r.Items())
}

func TestRendererClick(t *testing.T) {
	var removed []repository.Item
	r := newTestRenderer(&removed)
	r.SetItems([]repository.Item{milk, eggs, bread})

	r.Click(10, 2)
	require.Empty(t, removed)
	sel, _ := r.selected()
	require.Equal(t, bread, sel)

	r.Click(glyphCol, 1)
	require.Equal(t, []repository.Item{eggs}, removed)

	// below the last row
	r.Click(glyphCol, 7)
	require.Len(t, removed, 1)
}

func TestRendererReplaceKeepsSelectionInRange(t *testing.T) {
	var removed []repository.Item
	r := newTestRenderer(&removed)
	r.SetItems([]repository.Item{milk, eggs, bread})
	r.Scroll(2)
	sel, _ := r.selected()
	require.Equal(t, bread, sel)

	r.SetItems([]repository.Item{milk})
	sel, ok := r.selected()
	require.True(t, ok)
	require.Equal(t, milk, sel)
	require.NotContains(t, r.View(), "Eggs")
}

func TestRendererActivateOutOfRange(t *testing.T) {
	var removed []repository.Item
	r := newTestRenderer(&removed)
	r.SetItems([]repository.Item{milk})
	r.Activate(-1)
	r.Activate(5)
	require.Empty(t, removed)
}
