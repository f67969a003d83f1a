package watch_test

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edp1096/grid-spice/pkg/watch"
)

func TestWatchCallsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.txt")
	require.NoError(t, os.WriteFile(path, []byte("* t\n"), 0644))

	var calls atomic.Int32
	w := watch.New(path, func() { calls.Add(1) }).
		WithDebounce(20 * time.Millisecond).
		WithLogger(log.New(io.Discard, "", 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("* t\nR1 0,0 1,0 1\n"), 0644))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w := watch.New(filepath.Join(t.TempDir(), "nope", "layout.txt"), func() {}).
		WithLogger(log.New(io.Discard, "", 0))
	require.Error(t, w.Watch(context.Background()))
}
