package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"auth-service/internal/domain"
	"auth-service/internal/password"
	"auth-service/internal/repository"
)

// dummyHash keeps the unknown-username login path doing the same bcrypt work
// as the wrong-password path.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unknown-user"), bcrypt.DefaultCost)

// AccountService orchestrates account lifecycle operations. Register and
// Login return the plaintext session token alongside the created or
// authenticated user.
type AccountService interface {
	Register(ctx context.Context, username, email, plaintext string) (*domain.User, string, error)
	Login(ctx context.Context, username, plaintext string) (*domain.User, string, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	Profile(ctx context.Context, userID int64) (*domain.User, error)
}

type accountService struct {
	users  repository.UserRepository
	tokens TokenService
	policy password.Policy
	logger *logrus.Logger
}

func NewAccountService(users repository.UserRepository, tokens TokenService, policy password.Policy, logger *logrus.Logger) AccountService {
	return &accountService{
		users:  users,
		tokens: tokens,
		policy: policy,
		logger: logger,
	}
}

func (s *accountService) Register(ctx context.Context, username, email, plaintext string) (*domain.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	attrs := password.Attributes{Username: username, Email: email}
	if violations := s.policy.Validate(plaintext, attrs); len(violations) > 0 {
		return nil, "", FieldErrors{"password": violations}
	}

	// best-effort early rejection; the UNIQUE constraint below is the
	// authority and closes the race window
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", FieldErrors{"email": {"an account with this email address already exists"}}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, "", FieldErrors{"username": {"an account with this username already exists"}}
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, "", FieldErrors{"email": {"an account with this email address already exists"}}
		}
		return nil, "", err
	}

	tokenValue, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.WithField("username", user.Username).Info("user registered")
	return sanitizeUser(user), tokenValue, nil
}

func (s *accountService) Login(ctx context.Context, username, plaintext string) (*domain.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || plaintext == "" {
		return nil, "", ErrBadCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// burn the same bcrypt time as a real comparison
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plaintext))
			return nil, "", ErrBadCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plaintext)); err != nil {
		return nil, "", ErrBadCredentials
	}

	tokenValue, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.WithField("username", user.Username).Info("user logged in")
	return sanitizeUser(user), tokenValue, nil
}

// ChangePassword replaces the caller's password hash. Policy violations on
// the new password are computed and returned before the old password is
// verified. Existing session tokens are left untouched.
func (s *accountService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	attrs := password.Attributes{Username: user.Username, Email: user.Email}
	if violations := s.policy.Validate(newPassword, attrs); len(violations) > 0 {
		return FieldErrors{"new_password": violations}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	s.logger.WithField("username", user.Username).Info("password changed")
	return nil
}

func (s *accountService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		JoinedAt: user.JoinedAt,
	}
}
