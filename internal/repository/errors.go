package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrUsernameTaken indicates the users.username UNIQUE constraint fired.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken indicates the users.email UNIQUE constraint fired.
	ErrEmailTaken = errors.New("email already taken")
)
