// Package token generates opaque session token values and the digests under
// which they are stored.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// DefaultLength is the number of random bytes per token value.
const DefaultLength = 32

// Generate returns a new token value built from length cryptographically
// random bytes, base64url-encoded.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Digest returns the hex-encoded SHA-256 of a token value. Only digests are
// persisted, so a leaked token table cannot be replayed.
func Digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
