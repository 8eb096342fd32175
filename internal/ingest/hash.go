package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// hashBufferSize is the fixed read size used when streaming file bytes
// through the digest.
const hashBufferSize = 32 * 1024

// HashFile computes the hex SHA-256 content hash of the file at path by
// streaming fixed-size reads through the digest. The hash depends only on
// the byte content, so re-uploads of identical bytes produce the same hash
// regardless of filename.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hashing: %w", err)
	}
	defer f.Close()

	digest := sha256.New()
	buf := make([]byte, hashBufferSize)
	if _, err := io.CopyBuffer(digest, f, buf); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}
