package domain

import "time"

// User represents a registered account. Username, Email, and JoinedAt are
// immutable after creation; only PasswordHash is ever replaced.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	JoinedAt     time.Time
}
