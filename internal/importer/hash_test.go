package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFileHash(t *testing.T) {
	dir := t.TempDir()

	pathA := filepath.Join(dir, "a.csv")
	pathB := filepath.Join(dir, "b.csv")
	require.NoError(t, os.WriteFile(pathA, []byte("job no,job name\n"), 0o644))
	require.NoError(t, os.WriteFile(pathB, []byte("job no,job name,status\n"), 0o644))

	hashA1, err := CalculateFileHash(pathA)
	require.NoError(t, err)
	hashA2, err := CalculateFileHash(pathA)
	require.NoError(t, err)
	hashB, err := CalculateFileHash(pathB)
	require.NoError(t, err)

	assert.Equal(t, hashA1, hashA2)
	assert.NotEqual(t, hashA1, hashB)
	assert.Len(t, hashA1, 64) // sha256 hex
}

func TestCalculateFileHashMissingFile(t *testing.T) {
	_, err := CalculateFileHash(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
