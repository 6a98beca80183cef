package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/jask/shoplist/internal/database/repository"
	"github.com/jask/shoplist/internal/logging"
)

// ErrEmptyName is returned when an item name is blank.
var ErrEmptyName = errors.New("item name is empty")

// ItemStore is what ListController needs from the persistence layer.
type ItemStore interface {
	Insert(ctx context.Context, name string) (repository.Item, error)
	Delete(ctx context.Context, it repository.Item) error
	Watch(ctx context.Context) (<-chan []repository.Item, error)
}

// ValidateName rejects empty input. Anything else, whitespace included, is a
// valid name and is stored as typed.
func ValidateName(raw string) (string, error) {
	if raw == "" {
		return "", ErrEmptyName
	}
	return raw, nil
}

type job func(context.Context) error

// ListController sits between the screen and the store. Writes are queued to
// a single background worker, so AddItem and RemoveItem return immediately and
// run in submission order. Results show up through Items.
type ListController struct {
	store ItemStore
	log   *zap.Logger

	// queue is unbounded; notify wakes the worker after an append or Close.
	mu     sync.Mutex
	queue  []job
	closed bool
	notify chan struct{}

	errs   chan error
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewListController(store ItemStore, log *zap.Logger) *ListController {
	ctx, cancel := context.WithCancel(context.Background())
	c := &ListController{
		store:  store,
		log:    logging.OrNop(log),
		notify: make(chan struct{}, 1),
		errs:   make(chan error, 1),
		ctx:    ctx,
		cancel: cancel,
	}
	c.wg.Add(1)
	go c.worker()
	return c
}

func (c *ListController) worker() {
	defer c.wg.Done()
	for {
		next, ok := c.next()
		if !ok {
			return
		}
		if err := next(c.ctx); err != nil {
			c.log.Error("storage write failed", zap.Error(err))
			select {
			case c.errs <- err:
			default: // one fatal error is enough
			}
		}
	}
}

// next pops the oldest job, waiting for one if the queue is empty. It reports
// false once the controller is closed and drained.
func (c *ListController) next() (job, bool) {
	for {
		c.mu.Lock()
		if len(c.queue) > 0 {
			j := c.queue[0]
			c.queue[0] = nil
			c.queue = c.queue[1:]
			c.mu.Unlock()
			return j, true
		}
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return nil, false
		}
		<-c.notify
	}
}

func (c *ListController) wake() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// submit appends j to the queue. It never blocks on the worker.
func (c *ListController) submit(j job) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.queue = append(c.queue, j)
	c.mu.Unlock()
	c.wake()
	return true
}

// AddItem queues an insert of text. Empty text is rejected synchronously.
func (c *ListController) AddItem(text string) error {
	name, err := ValidateName(text)
	if err != nil {
		return err
	}
	if !c.submit(func(ctx context.Context) error {
		it, err := c.store.Insert(ctx, name)
		if err != nil {
			return err
		}
		c.log.Info("item added", zap.Int64("id", it.ID), zap.String("name", it.Name))
		return nil
	}) {
		c.log.Warn("add after close ignored", zap.String("name", name))
	}
	return nil
}

// RemoveItem queues a delete of it. Removing an item that no longer exists is
// harmless.
func (c *ListController) RemoveItem(it repository.Item) {
	if !c.submit(func(ctx context.Context) error {
		if err := c.store.Delete(ctx, it); err != nil {
			return err
		}
		c.log.Info("item removed", zap.Int64("id", it.ID))
		return nil
	}) {
		c.log.Warn("remove after close ignored", zap.Int64("id", it.ID))
	}
}

// Items is the store's observable list, passed through untouched.
func (c *ListController) Items(ctx context.Context) (<-chan []repository.Item, error) {
	return c.store.Watch(ctx)
}

// Errors delivers the first storage failure from a background write. The
// application treats it as fatal.
func (c *ListController) Errors() <-chan error { return c.errs }

// Close stops accepting work and waits for queued writes to finish.
func (c *ListController) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	c.wake()

	c.wg.Wait()
	c.cancel()
}
