// Package watch turns file saves on one board document into stamp triggers.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events editors emit for one save.
const DefaultDebounce = 250 * time.Millisecond

// Watcher calls its handler once per settled save of the target file. The
// parent directory is watched so atomic rename-over saves are seen.
type Watcher struct {
	target   string
	debounce time.Duration
	handler  func(ctx context.Context)
	logger   *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a watcher for the file at absPath.
func New(absPath string, debounce time.Duration, handler func(ctx context.Context), logger *slog.Logger) (*Watcher, error) {
	if !filepath.IsAbs(absPath) {
		return nil, fmt.Errorf("watch path must be absolute: %s", absPath)
	}
	if handler == nil {
		return nil, fmt.Errorf("watch handler is required")
	}
	if debounce < 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		target:   filepath.Clean(absPath),
		debounce: debounce,
		handler:  handler,
		logger:   logger.With("component", "watch"),
	}, nil
}

// Run blocks until ctx is done or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.target)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("watching board", "path", w.target, "debounce", w.debounce)

	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("watch events overflowed, rescheduling", "error", err)
				w.schedule(ctx)
				continue
			}
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if !w.relevant(event) {
		return
	}
	w.logger.Debug("board changed", "op", event.Op.String())
	w.schedule(ctx)
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		w.handler(ctx)
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
