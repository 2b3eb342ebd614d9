package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenReadClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	payload := []byte("sampled series payload")
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	m, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, payload, m.Bytes())
	assert.Equal(t, int64(len(payload)), m.Size())

	buf := make([]byte, 7)
	n, err := m.ReadAt(buf, 8)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, []byte("series "), buf)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "close is idempotent")
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), m.Size())

	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.Error(t, err)
	require.NoError(t, m.Close())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.bin"))
	assert.Error(t, err)
}
