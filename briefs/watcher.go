package briefs

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the library when brief files change. Changes are
// debounced so an editor's save burst triggers one reload.
type Watcher struct {
	library *Library
	watcher *fsnotify.Watcher

	pendingMu sync.Mutex
	pending   bool
}

// NewWatcher creates a watcher over the library's directory.
func NewWatcher(library *Library) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(library.config.Dir); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		library: library,
		watcher: fsw,
	}, nil
}

// Run processes events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	debounce := w.library.config.DebounceDelay
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.pendingMu.Lock()
			if !w.pending {
				w.pending = true
				timer.Reset(debounce)
			}
			w.pendingMu.Unlock()

		case <-timer.C:
			w.pendingMu.Lock()
			w.pending = false
			w.pendingMu.Unlock()

			if err := w.library.Reload(); err != nil {
				w.library.logger.Warn("Brief reload failed", "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.library.logger.Warn("Brief watcher error", "error", err)
		}
	}
}
