package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/shoplist/internal/database/repository"
)

// RemoveFunc is called when the remove affordance of a row is activated.
type RemoveFunc func(repository.Item)

// row adapts repository.Item to bubbles/list.Item.
type row struct {
	item repository.Item
}

func (r row) FilterValue() string { return r.item.Name }

// Columns of the remove glyph inside a rendered row: "> ✖ name".
const (
	glyphCol   = 2
	glyphWidth = 2
)

// rowDelegate renders each item on a single line.
type rowDelegate struct{}

func (d rowDelegate) Height() int                         { return 1 }
func (d rowDelegate) Spacing() int                        { return 0 }
func (d rowDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(row)
	if !ok {
		return
	}
	prefix := "  "
	name := nameStyle.Render(r.item.Name)
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
		name = selectedStyle.Render(r.item.Name)
	}
	fmt.Fprint(w, prefix+removeStyle.Render(removeGlyph)+" "+name)
}

// Renderer shows the whole item list and turns remove intents into calls to
// onRemove. It keeps no state beyond what the last SetItems gave it.
type Renderer struct {
	list     list.Model
	items    []repository.Item
	onRemove RemoveFunc
	remove   key.Binding
}

func NewRenderer(onRemove RemoveFunc) *Renderer {
	l := list.New(nil, rowDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = hintStyle
	l.SetStatusBarItemName("item", "items")

	return &Renderer{
		list:     l,
		onRemove: onRemove,
		remove:   newKeyMap().Remove,
	}
}

// SetItems replaces the rendered list wholesale.
func (r *Renderer) SetItems(items []repository.Item) {
	r.items = items
	rows := make([]list.Item, 0, len(items))
	for _, it := range items {
		rows = append(rows, row{item: it})
	}
	r.list.SetItems(rows)
	if n := len(rows); n > 0 && r.list.Index() >= n {
		r.list.Select(n - 1)
	}
}

// Items returns what is currently rendered.
func (r *Renderer) Items() []repository.Item { return r.items }

// selected returns the highlighted item, if any.
func (r *Renderer) selected() (repository.Item, bool) {
	i := r.list.Index()
	if i < 0 || i >= len(r.items) {
		return repository.Item{}, false
	}
	return r.items[i], true
}

func (r *Renderer) SetSize(width, height int) {
	if height < 3 {
		height = 3
	}
	r.list.SetSize(width, height)
}

// Activate fires the remove affordance of the row at index.
func (r *Renderer) Activate(index int) {
	if index < 0 || index >= len(r.items) || r.onRemove == nil {
		return
	}
	r.onRemove(r.items[index])
}

// Click handles a press at column x of visible line y (relative to the first
// row). A press on the glyph removes that row; anywhere else selects it.
func (r *Renderer) Click(x, y int) {
	p := r.list.Paginator
	if y < 0 || y >= p.ItemsOnPage(len(r.items)) {
		return
	}
	index := p.Page*p.PerPage + y
	if x >= glyphCol && x < glyphCol+glyphWidth {
		r.Activate(index)
		return
	}
	r.list.Select(index)
}

// Scroll moves the selection by delta rows.
func (r *Renderer) Scroll(delta int) {
	for ; delta < 0; delta++ {
		r.list.CursorUp()
	}
	for ; delta > 0; delta-- {
		r.list.CursorDown()
	}
}

// Update handles the remove key and passes navigation to the list.
func (r *Renderer) Update(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, r.remove) {
		r.Activate(r.list.Index())
		return nil
	}
	var cmd tea.Cmd
	r.list, cmd = r.list.Update(msg)
	return cmd
}

func (r *Renderer) View() string {
	if len(r.items) == 0 {
		return ""
	}
	return r.list.View()
}
