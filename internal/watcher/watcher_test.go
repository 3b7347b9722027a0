package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/codegraph/cie/internal/config"
)

func testConfig(t *testing.T, root string) *config.Config {
	return &config.Config{
		Project: config.Project{Root: root, Name: "t"},
		Index: config.Index{
			MaxFileSize:     1 << 20,
			WatchMode:       true,
			WatchDebounceMs: 20,
		},
		Include: []string{"**/*.py"},
		Exclude: []string{"**/.git/**"},
	}
}

func TestWatcher_StartStop_NoGoroutineLeak(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0644))

	w, err := New(testConfig(t, dir))
	require.NoError(t, err)
	require.NoError(t, w.Start(dir))
	require.NoError(t, w.Stop())
}

func TestWatcher_DebouncesBurstIntoOneBatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0644))

	w, err := New(testConfig(t, dir))
	require.NoError(t, err)

	batches := make(chan []ChangeEvent, 10)
	w.OnBatch = func(evts []ChangeEvent) { batches <- evts }

	require.NoError(t, w.Start(dir))
	defer w.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("x = 2\n"), 0644))
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case evts := <-batches:
		require.Len(t, evts, 1)
		require.Equal(t, path, evts[0].Path)
		require.Equal(t, EventWrite, evts[0].Type)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debounced batch")
	}
}

func TestWatcher_IgnoresExcludedPath(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))

	w, err := New(testConfig(t, dir))
	require.NoError(t, err)
	defer w.Stop()

	require.True(t, w.shouldIgnoreDir(filepath.Join(dir, ".git")))
	require.False(t, w.shouldProcessFile(filepath.Join(dir, "other.txt")))
	require.True(t, w.shouldProcessFile(filepath.Join(dir, "a.py")))
}

func TestWatcher_LastError_NilWhenNoFailures(t *testing.T) {
	dir := t.TempDir()
	w, err := New(testConfig(t, dir))
	require.NoError(t, err)
	require.Nil(t, w.LastError())
}
