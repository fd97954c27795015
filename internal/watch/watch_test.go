package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcherFiresOnTableWrite(t *testing.T) {
	dir := t.TempDir()
	fired := make(chan struct{}, 8)

	w, err := New(dir, 10*time.Millisecond, zap.NewNop(), func() {
		fired <- struct{}{}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ct"), []byte("x"), 0644))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback not invoked for .ct write")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	fired := make(chan struct{}, 8)

	w, err := New(dir, 10*time.Millisecond, zap.NewNop(), func() {
		fired <- struct{}{}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	select {
	case <-fired:
		t.Fatal("callback invoked for non-table file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherRunsOnceAgainstSettledContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ct")

	var mu sync.Mutex
	var seen []string

	w, err := New(dir, 200*time.Millisecond, zap.NewNop(), func() {
		data, err := os.ReadFile(path)
		if err != nil {
			return
		}
		mu.Lock()
		seen = append(seen, string(data))
		mu.Unlock()
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	// Two writes inside the debounce window, like an editor save burst.
	require.NoError(t, os.WriteFile(path, []byte("partial"), 0644))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("settled"), 0644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	}, 2*time.Second, 20*time.Millisecond, "callback not invoked after burst settled")

	// Let another full window pass to catch spurious extra runs.
	time.Sleep(500 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"settled"}, seen)
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w, err := New(t.TempDir(), time.Millisecond, zap.NewNop(), func() {})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	w.Stop()
	w.Stop()
}
