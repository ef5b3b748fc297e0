package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
)

// SHA256 digests everything written to it. Put it in an io.MultiWriter or
// io.TeeReader to hash a stream while it is consumed.
type SHA256 struct {
	h hash.Hash
}

// NewSHA256 returns an empty digest.
func NewSHA256() *SHA256 {
	return &SHA256{h: sha256.New()}
}

func (s *SHA256) Write(p []byte) (int, error) {
	return s.h.Write(p)
}

// Sum returns the digest of the bytes written so far in the format
// "sha256:<hex_hash>".
func (s *SHA256) Sum() string {
	return fmt.Sprintf("sha256:%s", hex.EncodeToString(s.h.Sum(nil)))
}

// CalculateSHA256 consumes r and returns its digest in the format
// "sha256:<hex_hash>".
func CalculateSHA256(r io.Reader) (string, error) {
	d := NewSHA256()
	if _, err := io.Copy(d, r); err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}
	return d.Sum(), nil
}
