package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestHashFile_StableAcrossFilenames(t *testing.T) {
	content := []byte("INVOICE #100\n\nTotal: $5")

	first, err := HashFile(writeTempFile(t, "original.pdf", content))
	require.NoError(t, err)
	second, err := HashFile(writeTempFile(t, "renamed-copy.pdf", content))
	require.NoError(t, err)

	assert.Equal(t, first, second, "hash depends on bytes only, not filename")
	assert.Len(t, first, 64, "hex SHA-256")
}

func TestHashFile_DifferentContentDiffers(t *testing.T) {
	first, err := HashFile(writeTempFile(t, "a.pdf", []byte("invoice a")))
	require.NoError(t, err)
	second, err := HashFile(writeTempFile(t, "b.pdf", []byte("invoice b")))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashFile_LargeFileStreams(t *testing.T) {
	// Larger than the 32 KiB read buffer, so hashing spans multiple reads.
	content := bytes.Repeat([]byte("0123456789abcdef"), 8192)

	sum, err := HashFile(writeTempFile(t, "big.bin", content))
	require.NoError(t, err)
	again, err := HashFile(writeTempFile(t, "big2.bin", content))
	require.NoError(t, err)

	assert.Equal(t, sum, again)
}

func TestHashFile_MissingFile(t *testing.T) {
	_, err := HashFile("/nonexistent/invoice.pdf")
	assert.Error(t, err)
}
