package watch_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wncli/wn/internal/watch"
)

const (
	debounce = 30 * time.Millisecond
	waitFor  = 2 * time.Second
	tick     = 10 * time.Millisecond
)

// start runs w in the background and returns a function that stops it.
func start(t *testing.T, w *watch.Watcher) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Run(ctx)
	}()
	return func() {
		cancel()
		wg.Wait()
		require.NoError(t, w.Close())
	}
}

// settle gives the watcher time to register directories after a build.
func settle() {
	time.Sleep(4 * debounce)
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newWatcher(t *testing.T, build watch.BuildFunc) *watch.Watcher {
	t.Helper()
	w, err := watch.New(build, watch.Options{Debounce: debounce, Logger: log.New(io.Discard)})
	require.NoError(t, err)
	return w
}

func TestRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	app := filepath.Join(dir, "app.jsx")
	other := filepath.Join(dir, "notes.txt")
	write(t, app, "v1")
	write(t, other, "")

	var builds atomic.Int32
	w := newWatcher(t, func(ctx context.Context) ([]string, error) {
		builds.Add(1)
		return []string{app}, nil
	})
	stop := start(t, w)
	defer stop()

	require.Eventually(t, func() bool { return builds.Load() == 1 }, waitFor, tick)
	settle()

	write(t, other, "ignored")
	settle()
	assert.Equal(t, int32(1), builds.Load(), "unwatched files do not trigger builds")

	write(t, app, "v2")
	write(t, app, "v3")
	write(t, app, "v4")
	require.Eventually(t, func() bool { return builds.Load() == 2 }, waitFor, tick)

	settle()
	assert.Equal(t, int32(2), builds.Load(), "changes within the debounce window coalesce")
}

func TestReregistersFileSet(t *testing.T) {
	dir := t.TempDir()
	pages := filepath.Join(dir, "pages")
	require.NoError(t, os.Mkdir(pages, 0o755))
	app := filepath.Join(dir, "app.jsx")
	page := filepath.Join(pages, "index.jsx")
	write(t, app, "")
	write(t, page, "")

	var builds atomic.Int32
	w := newWatcher(t, func(ctx context.Context) ([]string, error) {
		if builds.Add(1) == 1 {
			return []string{app}, nil
		}
		return []string{app, page}, nil
	})
	stop := start(t, w)
	defer stop()

	require.Eventually(t, func() bool { return builds.Load() == 1 }, waitFor, tick)
	settle()

	write(t, app, "import './pages/index'")
	require.Eventually(t, func() bool { return builds.Load() == 2 }, waitFor, tick)
	settle()

	write(t, page, "changed")
	require.Eventually(t, func() bool { return builds.Load() == 3 }, waitFor, tick)
}

func TestKeepsWatchingAfterFailedBuild(t *testing.T) {
	dir := t.TempDir()
	app := filepath.Join(dir, "app.jsx")
	write(t, app, "")

	var builds atomic.Int32
	w := newWatcher(t, func(ctx context.Context) ([]string, error) {
		builds.Add(1)
		return []string{app}, assert.AnError
	})
	stop := start(t, w)
	defer stop()

	require.Eventually(t, func() bool { return builds.Load() == 1 }, waitFor, tick)
	settle()
	write(t, app, "fixed")
	require.Eventually(t, func() bool { return builds.Load() == 2 }, waitFor, tick)
}
