// Package watch re-runs the merge whenever a table file in the watched
// folder changes.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher monitors a folder for cheat-table writes and invokes a callback.
// Events are recorded in a per-file debounce map and only acted on once the
// file has been quiet for the debounce duration, so an editor save burst
// triggers a single run against the settled content.
type Watcher struct {
	mu       sync.Mutex
	fw       *fsnotify.Watcher
	dir      string
	debounce time.Duration
	onChange func()
	log      *zap.Logger
	pending  map[string]time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// New creates a watcher for dir. onChange runs on the watcher goroutine;
// keep it short or hand off.
func New(dir string, debounce time.Duration, log *zap.Logger, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		fw:       fw,
		dir:      dir,
		debounce: debounce,
		onChange: onChange,
		log:      log,
		pending:  make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; events are handled on a goroutine
// until Stop is called or ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.fw.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.log.Info("watching folder", zap.String("dir", w.dir))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to drain.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	w.fw.Close()
	<-w.doneCh
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	// Batches rapid saves; pending entries are acted on once quiet.
	ticker := time.NewTicker(w.tickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		case <-ticker.C:
			w.processSettled()
		}
	}
}

// tickInterval keeps the ticker well inside the debounce window so short
// windows still get checked promptly.
func (w *Watcher) tickInterval() time.Duration {
	interval := w.debounce / 4
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	if interval > 100*time.Millisecond {
		interval = 100 * time.Millisecond
	}
	return interval
}

// handleEvent records a table event for later processing. The merge itself
// runs from processSettled once the file has stopped changing.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return
	}
	if !strings.EqualFold(filepath.Ext(event.Name), ".ct") {
		return
	}

	w.log.Debug("table event recorded", zap.String("file", filepath.Base(event.Name)))
	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// processSettled fires the callback for files that have been quiet for the
// full debounce window. Multiple settled files collapse into one run.
func (w *Watcher) processSettled() {
	now := time.Now()
	settled := make([]string, 0)

	w.mu.Lock()
	for path, eventTime := range w.pending {
		if now.Sub(eventTime) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	if len(settled) == 0 {
		return
	}
	for _, path := range settled {
		w.log.Info("table changed, re-running merge", zap.String("file", filepath.Base(path)))
	}
	w.onChange()
}
