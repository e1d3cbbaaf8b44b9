package tables

import (
	"encoding/hex"
	"fmt"
	"github.com/apache/arrow/go/v18/arrow"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	"io"
	"os"
)

// Provenance describes where an exported table came from: a fresh run id, the
// path of the file it was read from, and that file's BLAKE2b-256 digest.
func Provenance(sourcePath string) (*arrow.Metadata, error) {
	digest, err := FileDigest(sourcePath)
	if err != nil {
		return nil, err
	}

	return NewMetadataBuilder().
		AddComment("Ricci promotion exam results prepared for fairness experiments").
		Add(RunIDKey, uuid.NewString()).
		Add(SourceKey, sourcePath).
		Add(SourceDigest, digest).
		BuildReference(), nil
}

// FileDigest returns the hex BLAKE2b-256 digest of the file at path.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %q: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}

	_, err = io.Copy(h, f)
	if err != nil {
		return "", fmt.Errorf("hashing %q: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
