package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitBatch(t *testing.T, fw *FileWatcher, timeout time.Duration) ([]FileEvent, bool) {
	t.Helper()
	select {
	case batch, ok := <-fw.Batches():
		return batch, ok
	case <-time.After(timeout):
		return nil, false
	}
}

func TestNewFileWatcher_MissingPath(t *testing.T) {
	_, err := NewFileWatcher([]string{"/path/that/does/not/exist"}, 0)
	assert.Error(t, err)
}

func TestNewFileWatcher_DefaultDebounce(t *testing.T) {
	fw, err := NewFileWatcher([]string{t.TempDir()}, 0)
	require.NoError(t, err)
	defer fw.Close()

	assert.Equal(t, DefaultDebounce, fw.debounce)
}

func TestFileWatcher_DeliversCSVChanges(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWatcher([]string{dir}, 50*time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	path := filepath.Join(dir, "rl.csv")
	require.NoError(t, os.WriteFile(path, []byte("RL,,\n"), 0644))

	batch, ok := waitBatch(t, fw, 3*time.Second)
	require.True(t, ok, "expected a change batch")
	require.NotEmpty(t, batch)
	assert.Equal(t, path, batch[0].Path)
}

func TestFileWatcher_CoalescesBurst(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWatcher([]string{dir}, 200*time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	path := filepath.Join(dir, "burst.csv")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("G,,\n"), 0644))
	}

	batch, ok := waitBatch(t, fw, 3*time.Second)
	require.True(t, ok)
	assert.Len(t, batch, 1, "events for one path collapse into one entry")
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWatcher([]string{dir}, 50*time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	_, ok := waitBatch(t, fw, 400*time.Millisecond)
	assert.False(t, ok)
}

func TestFileWatcher_WatchesParentOfFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "controller.csv")
	require.NoError(t, os.WriteFile(path, []byte("C,,\n"), 0644))

	fw, err := NewFileWatcher([]string{path}, 50*time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(path, []byte("C,,\nTask,Start,End\n"), 0644))

	batch, ok := waitBatch(t, fw, 3*time.Second)
	require.True(t, ok)
	assert.Equal(t, path, batch[0].Path)
}

func TestFileWatcher_CloseIsIdempotent(t *testing.T) {
	fw, err := NewFileWatcher([]string{t.TempDir()}, 0)
	require.NoError(t, err)

	require.NoError(t, fw.Close())
	assert.NoError(t, fw.Close())

	select {
	case _, ok := <-fw.Batches():
		assert.False(t, ok, "batches channel is closed after Close")
	case <-time.After(time.Second):
		t.Fatal("batches channel was not closed")
	}
}
