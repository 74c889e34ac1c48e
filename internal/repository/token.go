package repository

import (
	"context"

	"auth-service/internal/domain"
)

// TokenRepository defines persistence operations for session tokens, keyed by
// token digest. Delete is idempotent; DeleteByUser removes every token owned
// by one user in a single statement.
type TokenRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, token *domain.SessionToken) error
	GetByDigest(ctx context.Context, digest string) (*domain.SessionToken, error)
	Delete(ctx context.Context, digest string) error
	DeleteByUser(ctx context.Context, userID int64) error
}
