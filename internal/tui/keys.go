package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add    key.Binding
	Remove key.Binding
	Focus  key.Binding
	Edit   key.Binding
	Up     key.Binding
	Down   key.Binding
	Quit   key.Binding
	Exit   key.Binding

	inputFocused bool
}

func newKeyMap() keyMap {
	return keyMap{
		Add:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		Remove: key.NewBinding(key.WithKeys("d", "x", "delete", "backspace"), key.WithHelp("d", "remove")),
		Focus:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch focus")),
		Edit:   key.NewBinding(key.WithKeys("a", "i"), key.WithHelp("a", "new item")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		Exit:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp depends on which half of the screen has focus.
func (k keyMap) ShortHelp() []key.Binding {
	if k.inputFocused {
		return []key.Binding{k.Add, k.Focus}
	}
	return []key.Binding{k.Up, k.Down, k.Remove, k.Edit, k.Focus, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
