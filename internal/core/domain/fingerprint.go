package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the hex SHA-256 of the given text.
// Fingerprints are always computed on normalized text, never raw bytes,
// so that formatting-only variants of the same content collide.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// FingerprintSet tracks content fingerprints seen during a single run.
// Each run owns its own set; nothing is shared across runs.
type FingerprintSet struct {
	seen map[string]string
}

// NewFingerprintSet returns an empty fingerprint set.
func NewFingerprintSet() *FingerprintSet {
	return &FingerprintSet{seen: make(map[string]string)}
}

// Add records a fingerprint and the identifier that introduced it.
// It returns the identifier of the earlier holder and false when the
// fingerprint was already present; first encountered wins.
func (s *FingerprintSet) Add(fingerprint, identifier string) (string, bool) {
	if holder, ok := s.seen[fingerprint]; ok {
		return holder, false
	}
	s.seen[fingerprint] = identifier
	return identifier, true
}

// Contains reports whether the fingerprint has been seen.
func (s *FingerprintSet) Contains(fingerprint string) bool {
	_, ok := s.seen[fingerprint]
	return ok
}

// Len returns the number of distinct fingerprints.
func (s *FingerprintSet) Len() int {
	return len(s.seen)
}
