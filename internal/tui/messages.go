package tui

import "github.com/jask/shoplist/internal/database/repository"

type (
	itemsMsg      []repository.Item
	subscribedMsg struct{ ch <-chan []repository.Item }
	errMsg        struct{ err error }
)

func (e errMsg) Error() string { return e.err.Error() }
