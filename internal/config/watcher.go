package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"channelsorter/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

// StoreWatcher watches the category store file and notifies when an admin
// edits the managed set, so a running daemon can re-reconcile immediately
// instead of waiting for the next tick.
type StoreWatcher struct {
	mu sync.Mutex

	path             string
	debounceInterval time.Duration
	watcher          *fsnotify.Watcher
	pending          *time.Timer
	running          bool
}

// NewStoreWatcher creates a watcher for the given store file.
func NewStoreWatcher(path string, debounceInterval time.Duration) *StoreWatcher {
	if debounceInterval == 0 {
		debounceInterval = 500 * time.Millisecond
	}
	return &StoreWatcher{path: path, debounceInterval: debounceInterval}
}

// Start begins watching. Each debounced change to the store file sends one
// signal on changes. The directory rather than the file itself is watched,
// because the store writes via rename and renames replace the inode.
func (w *StoreWatcher) Start(ctx context.Context, changes chan<- struct{}) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		w.mu.Unlock()
		return err
	}
	w.watcher = watcher
	w.running = true
	w.mu.Unlock()

	go w.loop(ctx, changes)
	return nil
}

func (w *StoreWatcher) loop(ctx context.Context, changes chan<- struct{}) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debounce(func() {
				logging.Info("Config", "Category store changed: %s", w.path)
				select {
				case changes <- struct{}{}:
				case <-ctx.Done():
				}
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("Config", "Category store watcher error: %v", err)
		}
	}
}

func (w *StoreWatcher) debounce(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounceInterval, fn)
}

// Stop shuts the watcher down.
func (w *StoreWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	if w.pending != nil {
		w.pending.Stop()
	}
	w.watcher.Close()
}
