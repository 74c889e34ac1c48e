package service

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth-service/internal/password"
	"auth-service/internal/repository"
	"auth-service/internal/repository/sqlite"
)

func newTestServices(t *testing.T) (AccountService, TokenService, repository.UserRepository) {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	users := sqlite.NewUserRepository(db)
	require.NoError(t, users.Init(ctx))
	tokens := sqlite.NewTokenRepository(db)
	require.NoError(t, tokens.Init(ctx))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tokenService := NewTokenService(tokens, users, 32, 0)
	accountService := NewAccountService(users, tokenService, password.DefaultPolicy(8), logger)
	return accountService, tokenService, users
}

func TestRegister(t *testing.T) {
	accounts, tokens, users := newTestServices(t)
	ctx := context.Background()

	user, tokenValue, err := accounts.Register(ctx, "example", "a@example.com", "blue-orca-swims")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, tokenValue)
	assert.Empty(t, user.PasswordHash, "hash must not leave the service")

	// the returned token authenticates its owner immediately
	resolved, err := tokens.Resolve(ctx, tokenValue)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	stored, err := users.GetByUsername(ctx, "example")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", stored.Email)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "blue-orca-swims", stored.PasswordHash)
	assert.False(t, stored.JoinedAt.IsZero())
}

func TestRegisterWeakPassword(t *testing.T) {
	accounts, _, users := newTestServices(t)
	ctx := context.Background()

	_, _, err := accounts.Register(ctx, "example", "a@example.com", "123")
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.NotEmpty(t, fe["password"])

	_, err = users.GetByUsername(ctx, "example")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRegisterPasswordSimilarToUsername(t *testing.T) {
	accounts, _, _ := newTestServices(t)

	_, _, err := accounts.Register(context.Background(), "example", "a@example.com", "example12345")
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.NotEmpty(t, fe["password"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	_, _, err := accounts.Register(ctx, "example", "a@example.com", "blue-orca-swims")
	require.NoError(t, err)

	_, _, err = accounts.Register(ctx, "other", "a@example.com", "blue-orca-swims")
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.NotEmpty(t, fe["email"])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	_, _, err := accounts.Register(ctx, "example", "a@example.com", "blue-orca-swims")
	require.NoError(t, err)

	_, _, err = accounts.Register(ctx, "example", "b@example.com", "blue-orca-swims")
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.NotEmpty(t, fe["username"])
}

func TestLogin(t *testing.T) {
	accounts, tokens, _ := newTestServices(t)
	ctx := context.Background()

	_, _, err := accounts.Register(ctx, "example", "a@example.com", "blue-orca-swims")
	require.NoError(t, err)

	user, tokenValue, err := accounts.Login(ctx, "example", "blue-orca-swims")
	require.NoError(t, err)
	assert.Equal(t, "example", user.Username)
	assert.NotEmpty(t, tokenValue)

	resolved, err := tokens.Resolve(ctx, tokenValue)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestLoginFailuresAreUndifferentiated(t *testing.T) {
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	_, _, err := accounts.Register(ctx, "example", "a@example.com", "blue-orca-swims")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "example", "wrong-password"},
		{"unknown username", "nobody", "blue-orca-swims"},
		{"missing username", "", "blue-orca-swims"},
		{"missing password", "example", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := accounts.Login(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, ErrBadCredentials)
		})
	}
}

func TestLoginConcurrentSessionsAreIndependent(t *testing.T) {
	accounts, tokens, _ := newTestServices(t)
	ctx := context.Background()

	_, _, err := accounts.Register(ctx, "example", "a@example.com", "blue-orca-swims")
	require.NoError(t, err)

	_, first, err := accounts.Login(ctx, "example", "blue-orca-swims")
	require.NoError(t, err)
	_, second, err := accounts.Login(ctx, "example", "blue-orca-swims")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// revoking one session leaves the other intact
	require.NoError(t, tokens.Revoke(ctx, first))
	_, err = tokens.Resolve(ctx, first)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = tokens.Resolve(ctx, second)
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	user, _, err := accounts.Register(ctx, "example", "a@example.com", "blue-orca-swims")
	require.NoError(t, err)

	require.NoError(t, accounts.ChangePassword(ctx, user.ID, "blue-orca-swims", "green-heron-flies"))

	_, _, err = accounts.Login(ctx, "example", "blue-orca-swims")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, _, err = accounts.Login(ctx, "example", "green-heron-flies")
	assert.NoError(t, err)
}

func TestChangePasswordWrongOldPassword(t *testing.T) {
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	user, _, err := accounts.Register(ctx, "example", "a@example.com", "blue-orca-swims")
	require.NoError(t, err)

	err = accounts.ChangePassword(ctx, user.ID, "wrong-old-pass", "green-heron-flies")
	assert.ErrorIs(t, err, ErrWrongPassword)

	// neither the attempted new nor anything else changed
	_, _, err = accounts.Login(ctx, "example", "green-heron-flies")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, _, err = accounts.Login(ctx, "example", "blue-orca-swims")
	assert.NoError(t, err)
}

func TestChangePasswordWeakNewPassword(t *testing.T) {
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	user, _, err := accounts.Register(ctx, "example", "a@example.com", "blue-orca-swims")
	require.NoError(t, err)

	// policy violations are reported even when the old password is wrong
	err = accounts.ChangePassword(ctx, user.ID, "also-wrong", "xd")
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.NotEmpty(t, fe["new_password"])

	_, _, err = accounts.Login(ctx, "example", "blue-orca-swims")
	assert.NoError(t, err)
}

func TestChangePasswordKeepsExistingTokens(t *testing.T) {
	accounts, tokens, _ := newTestServices(t)
	ctx := context.Background()

	user, tokenValue, err := accounts.Register(ctx, "example", "a@example.com", "blue-orca-swims")
	require.NoError(t, err)

	require.NoError(t, accounts.ChangePassword(ctx, user.ID, "blue-orca-swims", "green-heron-flies"))

	_, err = tokens.Resolve(ctx, tokenValue)
	assert.NoError(t, err)
}

func TestProfile(t *testing.T) {
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	user, _, err := accounts.Register(ctx, "example", "a@example.com", "blue-orca-swims")
	require.NoError(t, err)

	profile, err := accounts.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "example", profile.Username)
	assert.Equal(t, "a@example.com", profile.Email)
	assert.Empty(t, profile.PasswordHash)
	assert.WithinDuration(t, time.Now().UTC(), profile.JoinedAt, time.Minute)
}
