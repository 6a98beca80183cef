// Package store wraps the items table with change notification: every write
// made through an ItemStore is followed by a fresh snapshot of the whole list
// pushed to each subscriber.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/shoplist/internal/database/repository"
	"github.com/jask/shoplist/internal/logging"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("store closed")

// ItemStore is the observable view over repository.ItemRepo.
type ItemStore struct {
	repo *repository.ItemRepo
	log  *zap.Logger

	// mu serializes writes, reloads and fan-out so snapshots are delivered
	// in the order the writes happened.
	mu     sync.Mutex
	subs   map[uuid.UUID]*subscriber
	last   []repository.Item
	closed bool

	done chan struct{}
	wg   sync.WaitGroup
}

// subscriber holds at most one undelivered snapshot; a newer one replaces it.
type subscriber struct {
	id      uuid.UUID
	out     chan []repository.Item
	pending chan []repository.Item
}

func (s *subscriber) offer(list []repository.Item) {
	select {
	case <-s.pending:
	default:
	}
	s.pending <- list
}

func New(repo *repository.ItemRepo, log *zap.Logger) *ItemStore {
	return &ItemStore{
		repo: repo,
		log:  logging.OrNop(log),
		subs: make(map[uuid.UUID]*subscriber),
		done: make(chan struct{}),
	}
}

// Insert persists a new item and notifies subscribers.
func (s *ItemStore) Insert(ctx context.Context, name string) (repository.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repository.Item{}, ErrClosed
	}
	it, err := s.repo.Insert(ctx, name)
	if err != nil {
		return repository.Item{}, fmt.Errorf("insert item: %w", err)
	}
	s.log.Debug("item inserted", zap.Int64("id", it.ID), zap.String("name", it.Name))
	if err := s.publishLocked(ctx, true); err != nil {
		return it, err
	}
	return it, nil
}

// Delete removes it by id and notifies subscribers. Deleting an item that is
// already gone succeeds and still re-emits the (unchanged) list.
func (s *ItemStore) Delete(ctx context.Context, it repository.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.repo.Delete(ctx, it); err != nil {
		return fmt.Errorf("delete item %d: %w", it.ID, err)
	}
	s.log.Debug("item deleted", zap.Int64("id", it.ID))
	return s.publishLocked(ctx, true)
}

// List returns the current items ordered by id.
func (s *ItemStore) List(ctx context.Context) ([]repository.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return list, nil
}

// Refresh reloads the table and notifies subscribers only if the list differs
// from the last one delivered. Used when the file changed underneath us.
func (s *ItemStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.publishLocked(ctx, false)
}

// Watch subscribes to the full item list. The current list is delivered first,
// then a new snapshot after every change. The channel is closed when ctx is
// done or the store is closed.
func (s *ItemStore) Watch(ctx context.Context) (<-chan []repository.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	s.last = list

	sub := &subscriber{
		id:      uuid.New(),
		out:     make(chan []repository.Item),
		pending: make(chan []repository.Item, 1),
	}
	sub.offer(slices.Clone(list))
	s.subs[sub.id] = sub

	s.wg.Add(1)
	go s.pump(ctx, sub)
	s.log.Debug("subscriber attached", zap.Stringer("sub", sub.id), zap.Int("items", len(list)))
	return sub.out, nil
}

func (s *ItemStore) pump(ctx context.Context, sub *subscriber) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.subs, sub.id)
		s.mu.Unlock()
		close(sub.out)
		s.log.Debug("subscriber detached", zap.Stringer("sub", sub.id))
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case list := <-sub.pending:
			select {
			case sub.out <- list:
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
		}
	}
}

func (s *ItemStore) publishLocked(ctx context.Context, always bool) error {
	list, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}
	if !always && s.last != nil && slices.Equal(list, s.last) {
		return nil
	}
	s.last = list
	for _, sub := range s.subs {
		sub.offer(slices.Clone(list))
	}
	return nil
}

// subscribers reports how many Watch channels are still open.
func (s *ItemStore) subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close detaches all subscribers and stops the file watcher, if any. It does
// not close the underlying database.
func (s *ItemStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}
