package service

import (
	"context"
	"errors"
	"time"

	"auth-service/internal/domain"
	"auth-service/internal/repository"
	"auth-service/internal/token"
)

// TokenService manages the session token lifecycle. Issue returns the
// plaintext value exactly once; everything else operates on digests.
type TokenService interface {
	Issue(ctx context.Context, userID int64) (string, error)
	Revoke(ctx context.Context, value string) error
	RevokeAll(ctx context.Context, userID int64) error
	Resolve(ctx context.Context, value string) (*domain.User, error)
}

type tokenService struct {
	tokens repository.TokenRepository
	users  repository.UserRepository
	length int
	ttl    time.Duration
}

// NewTokenService constructs a TokenService. length is the number of random
// bytes per token; ttl of zero means tokens never expire.
func NewTokenService(tokens repository.TokenRepository, users repository.UserRepository, length int, ttl time.Duration) TokenService {
	return &tokenService{
		tokens: tokens,
		users:  users,
		length: length,
		ttl:    ttl,
	}
}

func (s *tokenService) Issue(ctx context.Context, userID int64) (string, error) {
	value, err := token.Generate(s.length)
	if err != nil {
		return "", err
	}

	record := &domain.SessionToken{
		Digest:    token.Digest(value),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if s.ttl > 0 {
		expires := record.CreatedAt.Add(s.ttl)
		record.ExpiresAt = &expires
	}

	if err := s.tokens.Create(ctx, record); err != nil {
		return "", err
	}
	return value, nil
}

func (s *tokenService) Revoke(ctx context.Context, value string) error {
	return s.tokens.Delete(ctx, token.Digest(value))
}

func (s *tokenService) RevokeAll(ctx context.Context, userID int64) error {
	return s.tokens.DeleteByUser(ctx, userID)
}

// Resolve maps a presented token value to its owner. Unknown, expired, or
// orphaned tokens all resolve to ErrUnauthenticated; expired rows are
// deleted on sight.
func (s *tokenService) Resolve(ctx context.Context, value string) (*domain.User, error) {
	if value == "" {
		return nil, ErrUnauthenticated
	}

	digest := token.Digest(value)
	record, err := s.tokens.GetByDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if record.Expired(time.Now().UTC()) {
		_ = s.tokens.Delete(ctx, digest)
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}
