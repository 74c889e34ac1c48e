package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auth-service/internal/domain"
	"auth-service/internal/repository"
)

const createTokensTable = `
CREATE TABLE IF NOT EXISTS tokens (
	digest TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at DATETIME NOT NULL,
	expires_at DATETIME
);
CREATE INDEX IF NOT EXISTS idx_tokens_user_id ON tokens(user_id);
`

type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) repository.TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTokensTable); err != nil {
		return fmt.Errorf("create tokens table: %w", err)
	}
	return nil
}

func (r *TokenRepository) Create(ctx context.Context, token *domain.SessionToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx, `
INSERT INTO tokens (digest, user_id, created_at, expires_at)
VALUES (?, ?, ?, ?)`,
		token.Digest,
		token.UserID,
		token.CreatedAt,
		token.ExpiresAt,
	); err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (r *TokenRepository) GetByDigest(ctx context.Context, digest string) (*domain.SessionToken, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT digest, user_id, created_at, expires_at
FROM tokens
WHERE digest = ?`,
		digest,
	)

	var token domain.SessionToken
	if err := row.Scan(
		&token.Digest,
		&token.UserID,
		&token.CreatedAt,
		&token.ExpiresAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan token: %w", err)
	}
	return &token, nil
}

// Delete removes one token. Deleting an unknown digest is a no-op.
func (r *TokenRepository) Delete(ctx context.Context, digest string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE digest = ?`, digest); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// DeleteByUser removes every token owned by the user in one statement, so a
// concurrent issuance either lands before the delete (and is removed) or
// after it (and survives) -- never a partial sweep.
func (r *TokenRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete tokens for user: %w", err)
	}
	return nil
}
