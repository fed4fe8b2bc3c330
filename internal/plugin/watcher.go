package plugin

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long the watcher waits after the last
// filesystem event before rebuilding, so editor save bursts and bulk
// copies collapse into one scan.
const DefaultDebounce = 200 * time.Millisecond

// Watcher keeps the registry fresh by observing the command
// directories and triggering full rebuilds on change.
//
// Rebuilds are full scans rather than incremental patches: correctness
// is simpler to reason about and the cost is bounded by script count,
// not request volume.
type Watcher struct {
	registry *Registry
	log      zerolog.Logger
	fs       *fsnotify.Watcher
	debounce time.Duration

	closeCh   chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the rebuild debounce interval.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher subscribes to filesystem notifications on every resolver
// directory, recursively, and starts the rebuild loop.
//
// Failure here is expected to be non-fatal for the host: it keeps
// serving the snapshot loaded at startup and only live reload is
// lost. The caller logs the error once and moves on.
func NewWatcher(registry *Registry, log zerolog.Logger, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		registry: registry,
		log:      log,
		fs:       fsw,
		debounce: DefaultDebounce,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	dirs, err := registry.Paths().Dirs()
	if err != nil {
		fsw.Close()
		return nil, err
	}
	for _, dir := range dirs {
		if err := w.watchRecursive(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// watchRecursive adds dir and every subdirectory to the watch set.
func (w *Watcher) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return w.fs.Add(path)
		}
		return nil
	})
}

// run consumes filesystem events and coalesces them into debounced
// full rebuilds.
func (w *Watcher) run() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-w.closeCh:
			timer.Stop()
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			pending = true
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := w.registry.Rebuild(); err != nil {
				w.log.Error().Err(err).Msg("rebuild after change failed")
			}
		}
	}
}

// relevant reports whether an event should trigger a rebuild. Script
// file events always do. A newly created directory is added to the
// watch set and also triggers one, since its contents may have arrived
// in the same move.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Ext(ev.Name) == ScriptExt {
		return true
	}

	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.watchRecursive(ev.Name); err != nil {
				w.log.Warn().Err(err).Str("dir", ev.Name).Msg("cannot watch new directory")
			}
			return true
		}
	}
	return false
}

// Close releases the filesystem subscription and stops the rebuild
// loop. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}
