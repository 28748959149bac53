// Package watch rebuilds a project whenever one of its files changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// BuildFunc runs one build and returns the files it depends on. The file
// set may change between builds as imports are added or removed.
type BuildFunc func(ctx context.Context) ([]string, error)

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period after the last change before a
	// rebuild starts.
	Debounce time.Duration

	Logger *log.Logger
}

// Watcher runs a BuildFunc after debounced changes to its files.
type Watcher struct {
	build  BuildFunc
	opts   Options
	fsw    *fsnotify.Watcher
	files  map[string]bool
	dirs   map[string]bool
	builds atomic.Int64
}

// New creates a Watcher. Close must be called to release it.
func New(build BuildFunc, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Watcher{
		build: build,
		opts:  opts,
		fsw:   fsw,
		files: make(map[string]bool),
		dirs:  make(map[string]bool),
	}, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Builds returns the number of builds run so far.
func (w *Watcher) Builds() int {
	return int(w.builds.Load())
}

// Files returns the watched files, sorted.
func (w *Watcher) Files() []string {
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Run builds once, then rebuilds after changes until ctx is done or the
// watcher is closed. Build errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) {
	w.rebuild(ctx)
	w.opts.Logger.Info("watching for changes", "files", len(w.files))

	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.opts.Logger.Debug("file changed", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(w.opts.Debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.opts.Logger.Error("watching files", "error", err)
		case <-timer.C:
			w.rebuild(ctx)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return w.files[filepath.Clean(ev.Name)]
}

func (w *Watcher) rebuild(ctx context.Context) {
	w.builds.Add(1)
	files, err := w.build(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		w.opts.Logger.Error("build failed", "error", err)
	}
	if files != nil {
		w.register(files)
	}
}

// register replaces the watched file set. Directories are watched rather
// than files so editors that replace files on save are still seen.
func (w *Watcher) register(files []string) {
	w.files = make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		f = filepath.Clean(f)
		w.files[f] = true
		dirs[filepath.Dir(f)] = true
	}

	for dir := range w.dirs {
		if !dirs[dir] {
			if err := w.fsw.Remove(dir); err != nil {
				w.opts.Logger.Debug("unwatching directory", "dir", dir, "error", err)
			}
		}
	}
	for dir := range dirs {
		if w.dirs[dir] {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			w.opts.Logger.Warn("watching directory", "dir", dir, "error", err)
			delete(dirs, dir)
		}
	}
	w.dirs = dirs
}
