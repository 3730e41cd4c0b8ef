package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReloader struct {
	calls atomic.Int32
}

func (r *countingReloader) Reload(context.Context) error {
	r.calls.Add(1)
	return nil
}

func TestRelevant(t *testing.T) {
	assert.True(t, relevant(fsnotify.Event{Name: "main.json", Op: fsnotify.Write}))
	assert.True(t, relevant(fsnotify.Event{Name: "main.json", Op: fsnotify.Create}))
	assert.False(t, relevant(fsnotify.Event{Name: "main.json", Op: fsnotify.Chmod}))
	assert.False(t, relevant(fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}))
	assert.False(t, relevant(fsnotify.Event{Name: ".main.json.swp", Op: fsnotify.Write}))
}

func TestWatcherDebouncesBurstIntoOneReload(t *testing.T) {
	dir := t.TempDir()

	reloader := &countingReloader{}
	w, err := New(Options{
		Dir:      dir,
		Debounce: 50 * time.Millisecond,
		Reloader: reloader,
	})
	require.NoError(t, err)
	defer w.Stop() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	// A burst of writes inside the quiet period.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "main.json"), []byte(`{"rows":[]}`), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return reloader.calls.Load() == 1
	}, 2*time.Second, 20*time.Millisecond, "burst should collapse into a single reload")

	// Quiet period with no events: no further reloads.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), reloader.calls.Load())
}

func TestWatcherIgnoresNonCatalogueFiles(t *testing.T) {
	dir := t.TempDir()

	reloader := &countingReloader{}
	w, err := New(Options{
		Dir:      dir,
		Debounce: 30 * time.Millisecond,
		Reloader: reloader,
	})
	require.NoError(t, err)
	defer w.Stop() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hi"), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), reloader.calls.Load())
}
