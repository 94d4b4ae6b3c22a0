package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "src.bin")
	require.NoError(t, os.WriteFile(src, []byte("payload"), FileModeDefault))

	dst := filepath.Join(dir, "nested", "dst.bin")
	require.NoError(t, Move(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}

func TestMove_EmptyPaths(t *testing.T) {
	assert.Error(t, Move("", "/tmp/x"))
	assert.Error(t, Move("/tmp/x", ""))
}

func TestMove_MissingSource(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, Move(filepath.Join(dir, "missing"), filepath.Join(dir, "dst")))
}
