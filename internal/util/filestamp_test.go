package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFileStamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.csv")
	require.NoError(t, os.WriteFile(path, []byte("Group\nTask,Start,End\n"), 0644))

	first, err := GetFileStamp(path)
	require.NoError(t, err)
	assert.Equal(t, int64(20), first.Size)
	assert.NotZero(t, first.Inode)
	assert.Len(t, first.Fingerprint, 8)

	again, err := GetFileStamp(path)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, os.WriteFile(path, []byte("Group\nTask,Start,End\nA,2020-07-01,2020-07-02\n"), 0644))
	changed, err := GetFileStamp(path)
	require.NoError(t, err)
	assert.NotEqual(t, first.Fingerprint, changed.Fingerprint)
	assert.NotEqual(t, first.Size, changed.Size)
}

func TestGetFileStamp_Missing(t *testing.T) {
	_, err := GetFileStamp(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestCalculateFileFingerprint_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	fp, err := CalculateFileFingerprint(path)
	require.NoError(t, err)
	assert.Equal(t, "00000000", fp)
}
