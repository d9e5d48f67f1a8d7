// Package watch re-runs a render function whenever a changelog file changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/asdf-format/changelog-md/internal/logging"
	"github.com/fsnotify/fsnotify"
)

const (
	// DefaultDebounce is how long the watcher waits for a burst of events to
	// settle before re-rendering.
	DefaultDebounce = 100 * time.Millisecond
	// DefaultPollInterval is the backup poll for missed events.
	DefaultPollInterval = 500 * time.Millisecond
)

// Watcher watches one file. It watches the parent directory so that editors
// which save by renaming a temporary file are still noticed.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	log      *logging.Logger
	debounce time.Duration
	poll     time.Duration
	mu       sync.Mutex
	closed   bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle time after a change.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// withPollInterval sets the backup poll interval.
func withPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.poll = d }
}

// WithLogger sets the logger that receives change events and render errors.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

// New creates a Watcher for path. The file must exist.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching parent directory: %w", err)
	}

	w := &Watcher{
		path:     abs,
		watcher:  fw,
		debounce: DefaultDebounce,
		poll:     DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = logging.OrDiscard(w.log)
	return w, nil
}

// Run calls render once, then again after every change to the file, until
// ctx is cancelled. Errors from render are logged and the loop continues.
// Run returns nil when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, render func(context.Context) error) error {
	w.render(ctx, render)
	last := w.stat()

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.log.WatchEvent(event.Name, event.Op.String())
				settle = time.After(w.debounce)
			}

		case <-settle:
			settle = nil
			last = w.stat()
			w.render(ctx, render)

		case <-ticker.C:
			// Backup for events fsnotify missed.
			if cur := w.stat(); cur != last && settle == nil {
				last = cur
				w.render(ctx, render)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			w.log.WatchError(w.path, err)
		}
	}
}

func (w *Watcher) render(ctx context.Context, render func(context.Context) error) {
	if err := render(ctx); err != nil {
		w.log.WatchError(w.path, err)
	}
}

// fileState identifies a version of the file for the backup poll.
type fileState struct {
	mod  time.Time
	size int64
}

func (w *Watcher) stat() fileState {
	info, err := os.Stat(w.path)
	if err != nil {
		return fileState{}
	}
	return fileState{mod: info.ModTime(), size: info.Size()}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
