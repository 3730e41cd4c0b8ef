// Package watcher reloads the catalogue when its source files change.
// Edits to catalogue files tend to arrive in bursts (editors write
// temp files, sync tools touch several files), so events are debounced:
// the reload fires only after a quiet period.
package watcher

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period between the last file event and the
// reload it triggers.
const DefaultDebounce = 250 * time.Millisecond

// Reloader is the catalogue side of the watcher. catalog.Manager
// satisfies it.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Watcher monitors one directory of catalogue source files.
type Watcher struct {
	dir      string
	debounce time.Duration
	reloader Reloader
	logger   *slog.Logger

	fsw  *fsnotify.Watcher
	done chan struct{}
}

// Options configures a Watcher.
type Options struct {
	Dir      string
	Debounce time.Duration // 0 uses DefaultDebounce
	Reloader Reloader
	Logger   *slog.Logger
}

// New creates a watcher for the catalogue directory. Call Start to begin
// watching.
func New(opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fsw.Add(opts.Dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Watcher{
		dir:      opts.Dir,
		debounce: debounce,
		reloader: opts.Reloader,
		logger:   logger,
		fsw:      fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start runs the event loop until the context is canceled or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("catalogue file changed", "file", event.Name, "op", event.Op.String())

			// Restart the quiet-period timer on every relevant event.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)

		case <-fire:
			timer = nil
			fire = nil
			if err := w.reloader.Reload(ctx); err != nil {
				// Reload already logged the cause; the previous store
				// remains current.
				continue
			}
			w.logger.Info("catalogue reloaded after file change")
		}
	}
}

// relevant filters out events that never change catalogue content:
// non-JSON files and pure chmod events.
func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return strings.HasSuffix(event.Name, ".json")
}
