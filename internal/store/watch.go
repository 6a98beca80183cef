package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 150 * time.Millisecond

// WatchFile reloads the list whenever the sqlite file at dbPath (or its
// -wal/-journal companions) is written by anyone, including other processes.
// Subscribers only hear about it when the list actually changed. The watcher
// stops when ctx is done or the store is closed.
func (s *ItemStore) WatchFile(ctx context.Context, dbPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	// sqlite replaces the journal files, so watch the directory and filter.
	dir := filepath.Dir(dbPath)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	base := filepath.Base(dbPath)
	names := map[string]bool{
		base:              true,
		base + "-wal":     true,
		base + "-journal": true,
	}

	s.wg.Add(1)
	go s.runWatcher(ctx, w, names)
	s.log.Info("watching database file", zap.String("path", dbPath))
	return nil
}

func (s *ItemStore) runWatcher(ctx context.Context, w *fsnotify.Watcher, names map[string]bool) {
	defer s.wg.Done()
	defer w.Close()

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !names[filepath.Base(ev.Name)] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
				continue
			}
			timer.Reset(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn("database watcher error", zap.Error(err))
		case <-timer.C:
			if err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrClosed) {
				s.log.Error("refresh after external change", zap.Error(err))
			}
		}
	}
}
