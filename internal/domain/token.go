package domain

import "time"

// SessionToken is one active bearer session. Only the SHA-256 digest of the
// token is persisted; the plaintext value leaves the server exactly once, in
// the issuance response.
type SessionToken struct {
	Digest    string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt *time.Time
}

// Expired reports whether the token has an expiry in the past.
func (t SessionToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}
