package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/storefront/internal/errs"
	"github.com/deppfellow/storefront/internal/lib/job"
	"github.com/deppfellow/storefront/internal/lib/token"
	"github.com/deppfellow/storefront/internal/model"
	"github.com/deppfellow/storefront/internal/sqlerr"
	"golang.org/x/crypto/bcrypt"
)

const (
	MsgUserExists         = "User already exists"
	MsgNoUserFound        = "No User Found"
	MsgInvalidCredentials = "Invalid Credentials"
)

// AuthService handles self-registration and login.
type AuthService struct {
	base
	users  UserStore
	tokens *token.Manager
}

// LoginResult is a freshly issued access token.
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"-"`
}

// NormalizeEmail trims and lower-cases an address before it is stored or
// looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// createUser inserts a user after checking the email is free. A concurrent
// insert of the same email still ends as "User already exists" through the
// unique constraint.
func createUser(ctx context.Context, users UserStore, username, email, password string, role model.Role) (*model.User, error) {
	email = NormalizeEmail(email)

	_, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, errs.NewBadRequestError(MsgUserExists, true, errs.Code("USER_ALREADY_EXISTS"), nil, nil)
	case !isNotFound(err):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := users.Create(ctx, model.CreateUserParams{
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if sqlerr.IsUniqueViolation(err) {
			return nil, errs.NewBadRequestError(MsgUserExists, true, errs.Code("USER_ALREADY_EXISTS"), nil, nil)
		}
		return nil, err
	}

	return user, nil
}

// Register creates a customer account and schedules the welcome email.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	user, err := createUser(ctx, s.users, username, email, password, model.DefaultRole)
	if err != nil {
		return nil, err
	}

	s.logger(ctx).Info().
		Str("user_id", user.ID.String()).
		Msg("user registered")

	task, err := job.NewWelcomeEmailTask(user.Email, user.Username)
	s.enqueue(ctx, task, err)

	return user, nil
}

// Login checks the credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, errs.NewBadRequestError(MsgNoUserFound, true, nil, nil, nil)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errs.NewBadRequestError(MsgInvalidCredentials, true, nil, nil, nil)
		}
		return nil, fmt.Errorf("failed to compare password: %w", err)
	}

	signed, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}
