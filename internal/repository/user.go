package repository

import (
	"context"

	"auth-service/internal/domain"
)

// UserRepository defines persistence operations for User entities. The store
// owns uniqueness: Create must fail with ErrUsernameTaken/ErrEmailTaken on
// constraint violation rather than relying on callers to pre-check.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
}
