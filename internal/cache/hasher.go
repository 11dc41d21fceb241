// Package cache provides the content-hash-keyed result cache with TTL
// expiry, LRU eviction, and atomic on-disk persistence.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// SHA256Hasher computes stable SHA-256 digests of file bytes.
// Digests form the content part of cache keys: any byte change yields a
// different key and therefore a structural cache miss.
type SHA256Hasher struct{}

// NewHasher creates a new content hasher
func NewHasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashBytes returns the hex-encoded SHA-256 digest of content
func (h *SHA256Hasher) HashBytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// HashFile returns the digest of the file's current bytes
func (h *SHA256Hasher) HashFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return h.HashBytes(content), nil
}
