package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/shoplist/internal/database/repository"
	"github.com/jask/shoplist/internal/service"
)

// Controller is the part of service.ListController the screen drives.
type Controller interface {
	AddItem(text string) error
	RemoveItem(it repository.Item)
	Items(ctx context.Context) (<-chan []repository.Item, error)
	Errors() <-chan error
}

// Screen is the single application screen: an input line on top and the
// list underneath.
type Screen struct {
	ctx    context.Context
	cancel context.CancelFunc
	ctrl   Controller

	title    string
	input    textinput.Model
	renderer *Renderer
	keys     keyMap
	help     help.Model

	inputFocused bool
	fieldErr     string
	updates      <-chan []repository.Item
	err          error
	width        int
	height       int
}

// Layout rows above the list: title, blank, input, field error, blank.
const listTop = 5

// NewScreen builds the screen. The subscription it opens lives until ctx is
// done or the screen quits.
func NewScreen(ctx context.Context, ctrl Controller, title string) *Screen {
	ctx, cancel := context.WithCancel(ctx)
	s := &Screen{
		ctx:    ctx,
		cancel: cancel,
		ctrl:   ctrl,
		title:  title,
		keys:   newKeyMap(),
		help:   help.New(),
	}
	s.renderer = NewRenderer(func(it repository.Item) { s.ctrl.RemoveItem(it) })

	s.input = textinput.New()
	s.input.Prompt = "> "
	s.input.Placeholder = "Add an item..."
	s.input.PromptStyle = inputStyle
	s.focusInput(true)

	s.resize(80, 24)
	return s
}

// Err is the storage failure that ended the screen, if any.
func (s *Screen) Err() error { return s.err }

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, s.subscribe(), s.waitForError())
}

func (s *Screen) subscribe() tea.Cmd {
	return func() tea.Msg {
		ch, err := s.ctrl.Items(s.ctx)
		if err != nil {
			return errMsg{err}
		}
		return subscribedMsg{ch}
	}
}

func (s *Screen) waitForItems() tea.Cmd {
	ch := s.updates
	return func() tea.Msg {
		list, ok := <-ch
		if !ok {
			return nil
		}
		return itemsMsg(list)
	}
}

func (s *Screen) waitForError() tea.Cmd {
	return func() tea.Msg {
		select {
		case err, ok := <-s.ctrl.Errors():
			if !ok {
				return nil
			}
			return errMsg{err}
		case <-s.ctx.Done():
			return nil
		}
	}
}

func (s *Screen) quit() tea.Cmd {
	s.cancel()
	return tea.Quit
}

func (s *Screen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		s.resize(m.Width, m.Height)
		return s, nil
	case subscribedMsg:
		s.updates = m.ch
		return s, s.waitForItems()
	case itemsMsg:
		s.renderer.SetItems([]repository.Item(m))
		return s, s.waitForItems()
	case errMsg:
		s.err = m.err
		return s, s.quit()
	case tea.MouseMsg:
		return s, s.handleMouse(m)
	case tea.KeyMsg:
		return s, s.handleKey(m)
	}
	var cmd tea.Cmd
	if s.inputFocused {
		s.input, cmd = s.input.Update(msg)
	}
	return s, cmd
}

func (s *Screen) handleKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, s.keys.Exit):
		return s.quit()
	case key.Matches(m, s.keys.Focus):
		s.focusInput(!s.inputFocused)
		return nil
	case key.Matches(m, s.keys.Up), key.Matches(m, s.keys.Down):
		// arrows move the selection from either half; j/k only from the list
		if !s.inputFocused || m.Type != tea.KeyRunes {
			return s.renderer.Update(m)
		}
	}

	if s.inputFocused {
		switch m.Type {
		case tea.KeyEnter:
			s.submit()
			return nil
		case tea.KeyEsc:
			s.focusInput(false)
			return nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(m)
		if s.fieldErr != "" && m.Type == tea.KeyRunes {
			s.fieldErr = ""
		}
		return cmd
	}

	switch {
	case key.Matches(m, s.keys.Quit):
		return s.quit()
	case key.Matches(m, s.keys.Edit):
		s.focusInput(true)
		return nil
	}
	return s.renderer.Update(m)
}

// submit is the add action: validate, hand off, clear.
func (s *Screen) submit() {
	name, err := service.ValidateName(s.input.Value())
	if err != nil {
		s.fieldErr = "Please enter a value"
		return
	}
	if err := s.ctrl.AddItem(name); err != nil {
		s.fieldErr = err.Error()
		return
	}
	s.fieldErr = ""
	s.input.Reset()
}

func (s *Screen) handleMouse(m tea.MouseMsg) tea.Cmd {
	if m.Action != tea.MouseActionPress {
		return nil
	}
	switch m.Button {
	case tea.MouseButtonWheelUp:
		s.renderer.Scroll(-1)
	case tea.MouseButtonWheelDown:
		s.renderer.Scroll(1)
	case tea.MouseButtonLeft:
		switch {
		case m.Y == 2:
			s.focusInput(true)
		case m.Y >= listTop:
			s.focusInput(false)
			s.renderer.Click(m.X, m.Y-listTop)
		}
	}
	return nil
}

func (s *Screen) focusInput(on bool) {
	s.inputFocused = on
	s.keys.inputFocused = on
	if on {
		s.input.Focus()
	} else {
		s.input.Blur()
	}
}

func (s *Screen) resize(w, h int) {
	s.width, s.height = w, h
	s.input.Width = w - len(s.input.Prompt) - 1
	s.help.Width = w
	// title, blank, input, error, blank + blank, help
	s.renderer.SetSize(w, h-listTop-2)
}

func (s *Screen) View() string {
	var b strings.Builder

	n := len(s.renderer.Items())
	noun := "items"
	if n == 1 {
		noun = "item"
	}
	b.WriteString(titleStyle.Render(s.title) + "  " + countStyle.Render(fmt.Sprintf("%d %s", n, noun)))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n")
	if s.fieldErr != "" {
		b.WriteString(errorStyle.Render(removeGlyph + " " + s.fieldErr))
	} else if s.inputFocused {
		b.WriteString(hintStyle.Render("enter to add"))
	}
	b.WriteString("\n\n")
	b.WriteString(s.renderer.View())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(s.help.View(s.keys)))
	return b.String()
}
