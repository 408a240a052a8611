package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poems.csv")
	require.NoError(t, os.WriteFile(path, []byte("Title,Body,Category\n"), 0o644))

	reloads := make(chan string, 4)
	fw, err := NewFileWatcher(path, 30*time.Millisecond, func(p string) { reloads <- p }, nil)
	require.NoError(t, err)
	require.NoError(t, fw.Start(context.Background()))
	defer fw.Stop()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("Title,Body,Category\nA,b,C\n"), 0o644))
	}
	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	select {
	case got := <-reloads:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, got)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write")
	}

	select {
	case <-reloads:
		t.Fatal("burst of writes should reload once")
	case <-time.After(100 * time.Millisecond):
	}

	st := fw.Stats()
	assert.Equal(t, 1, st.Reloads)
	assert.GreaterOrEqual(t, st.Events, 1)
}

func TestFileWatcherStopsWithContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	fw, err := NewFileWatcher(path, DefaultFileDebounce, func(string) {}, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, fw.Start(ctx))
	cancel()

	done := make(chan struct{})
	go func() {
		fw.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked after context cancellation")
	}
}

func TestFileWatcherMissingDir(t *testing.T) {
	fw, err := NewFileWatcher(filepath.Join(t.TempDir(), "nope", "poems.csv"), time.Millisecond, func(string) {}, nil)
	require.NoError(t, err)
	assert.Error(t, fw.Start(context.Background()))
	fw.Stop()
}
