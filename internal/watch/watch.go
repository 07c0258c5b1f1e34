// Package watch reports batches of file changes under a set of paths.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a burst of events is collected before it is
// reported
const DefaultDebounce = 100 * time.Millisecond

// Watcher debounces filesystem events into change batches
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func(paths []string)
	debounce time.Duration
	relevant func(path string) bool
	logger   *slog.Logger
}

// Option customizes a Watcher
type Option func(*Watcher)

// WithDebounce sets the debounce window
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithFilter limits reported changes to paths for which keep returns true
func WithFilter(keep func(path string) bool) Option {
	return func(w *Watcher) { w.relevant = keep }
}

// WithLogger sets the watcher's logger
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New watches every directory under paths. onChange runs on the watcher's
// goroutine.
func New(paths []string, onChange func(paths []string), opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		onChange: onChange,
		debounce: DefaultDebounce,
		relevant: IsSourceFile,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, root := range paths {
		if err := w.addTree(root); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip hidden directories and node_modules
		if info.IsDir() && path != root && (strings.HasPrefix(info.Name(), ".") || info.Name() == "node_modules") {
			return filepath.SkipDir
		}

		if info.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// IsSourceFile keeps files a page reload could depend on
func IsSourceFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go", ".css", ".js", ".html", ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Run reports changes until ctx is done, then closes the watcher
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	debounce := time.NewTimer(w.debounce)
	debounce.Stop()
	defer debounce.Stop()

	var pending []string
	seen := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			// new directories are watched too
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("failed to watch directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if event.Op == fsnotify.Chmod || !w.relevant(event.Name) {
				continue
			}

			if !seen[event.Name] {
				seen[event.Name] = true
				pending = append(pending, event.Name)
			}
			debounce.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-debounce.C:
			if len(pending) == 0 {
				continue
			}
			batch := pending
			pending = nil
			seen = make(map[string]bool)

			w.logger.Debug("files changed", "count", len(batch))
			w.onChange(batch)
		}
	}
}
