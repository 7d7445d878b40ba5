// Package watch re-runs a callback whenever a watched file changes on
// disk, for "logic verify --watch". Grounded on the fsnotify-backed
// FSNotifyWatcher in a virtual filesystem's watch implementation, narrowed
// from that general Event/WatchOp abstraction (which also tracks create,
// remove, and rename across a whole directory tree) down to the one thing
// this CLI needs: wake up and re-verify when one of a small, fixed set of
// files is written.
package watch

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a fixed set of files for writes and debounces bursts of
// events into a single callback invocation.
type Watcher struct {
	fsw *fsnotify.Watcher
}

// New creates a Watcher with no files added yet.
func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{fsw: fsw}, nil
}

// Add starts watching path for changes.
func (w *Watcher) Add(path string) error {
	return w.fsw.Add(path)
}

// Close stops watching and releases the underlying OS resources.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks, calling onChange once for each debounced burst of write
// activity on a watched file, until ctx is done or the watcher errors. A
// write is folded into the previous one if it arrives within debounce, so
// a single save that fires several fsnotify events still triggers exactly
// one re-run. Chmod-only events are ignored; they never change a file's
// content.
func (w *Watcher) Run(ctx context.Context, debounce time.Duration, onChange func()) error {
	var timer *time.Timer

	var fired <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(debounce)
				fired = timer.C
			} else {
				timer.Reset(debounce)
			}

		case <-fired:
			fired = nil
			timer = nil

			onChange()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}

			return err
		}
	}
}
