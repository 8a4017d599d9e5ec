package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Snapshot is one emission of a live query.
type Snapshot[T any] struct {
	Value T
	Err   error
}

// WatchPlants streams the ordered plant list: one snapshot immediately and
// another after every change to the store. The channel is closed when ctx
// is cancelled.
func (s *Store) WatchPlants(ctx context.Context) <-chan Snapshot[[]Plant] {
	return watch(ctx, s, s.ListPlants, func(error) bool { return false })
}

// WatchPlant streams a single plant. When the plant no longer exists a
// final snapshot carrying ErrNotFound is sent and the channel is closed.
func (s *Store) WatchPlant(ctx context.Context, id int64) <-chan Snapshot[*Plant] {
	load := func() (*Plant, error) { return s.GetPlant(id) }
	return watch(ctx, s, load, func(err error) bool { return errors.Is(err, ErrNotFound) })
}

func watch[T any](ctx context.Context, s *Store, load func() (T, error), final func(error) bool) <-chan Snapshot[T] {
	changed, unsubscribe := s.subscribe()
	out := make(chan Snapshot[T])
	go func() {
		defer close(out)
		defer unsubscribe()
		for {
			v, err := load()
			select {
			case out <- Snapshot[T]{Value: v, Err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil && final(err) {
				return
			}
			select {
			case <-changed:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (s *Store) subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// notify wakes every subscriber. Pending wake-ups coalesce.
func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// StartFileWatch makes live queries also react to writes made by other
// processes, such as a CLI command run while the TUI is open.
func (s *Store) StartFileWatch() error {
	if s.path == memoryPath {
		return nil
	}
	s.mu.Lock()
	if s.watcher != nil {
		s.mu.Unlock()
		return nil
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(s.path)); err != nil {
		s.mu.Unlock()
		fw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}
	s.watcher = fw
	s.watchDone = make(chan struct{})
	s.mu.Unlock()

	go s.watchLoop(fw, s.watchDone)
	return nil
}

func (s *Store) stopFileWatch() {
	s.mu.Lock()
	fw, done := s.watcher, s.watchDone
	s.watcher = nil
	s.mu.Unlock()
	if fw == nil {
		return
	}
	fw.Close()
	<-done
}

func (s *Store) watchLoop(fw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	// Debounce: sqlite touches the db and its WAL several times per write.
	const debounce = 100 * time.Millisecond
	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !s.isDBFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= debounce {
				pending = time.Time{}
				s.notify()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			slog.Debug("store: file watch error", "error", err)
		}
	}
}

func (s *Store) isDBFile(name string) bool {
	base := filepath.Base(s.path)
	return strings.HasPrefix(filepath.Base(name), base)
}
