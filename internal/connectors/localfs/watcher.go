package localfs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/wikivec-cli/internal/logger"
)

// Event is one observed change to a file under the watch root.
type Event struct {
	// Path is the slash-separated path relative to the watch root.
	Path string

	// Removed is true when the file was deleted or renamed away.
	Removed bool
}

// Watcher reports file changes under a directory tree. fsnotify
// watches are per-directory, so the watcher registers every
// subdirectory up front and adds new ones as they appear.
type Watcher struct {
	root string
	fsw  *fsnotify.Watcher
	log  *slog.Logger
}

// NewWatcher creates a watcher rooted at dir.
func NewWatcher(dir string, log *slog.Logger) (*Watcher, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", dir, err)
	}
	if log == nil {
		log = logger.Discard()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{root: root, fsw: fsw, log: log}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Watch starts delivering events until ctx is cancelled. The returned
// channel is closed when watching stops.
func (w *Watcher) Watch(ctx context.Context) (<-chan Event, error) {
	events := make(chan Event, 16)
	go w.loop(ctx, events)
	return events, nil
}

// Close releases the underlying fsnotify watches.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context, events chan<- Event) {
	defer close(events)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.log.Warn("watch new directory", "dir", ev.Name, "error", err)
					}
					continue
				}
			}
			change, ok := w.translate(ev)
			if !ok {
				continue
			}
			select {
			case events <- change:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

// translate maps an fsnotify event to a watcher Event. Chmod-only
// events and hidden paths produce nothing.
func (w *Watcher) translate(ev fsnotify.Event) (Event, bool) {
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return Event{}, false
	}
	rel = filepath.ToSlash(rel)

	if isHidden(rel) {
		return Event{}, false
	}

	switch {
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		return Event{Path: rel, Removed: true}, true
	case ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write):
		return Event{Path: rel}, true
	}
	return Event{}, false
}

// addTree registers dir and every non-hidden subdirectory.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
