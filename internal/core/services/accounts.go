package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/voiceshield-labs/voiceshield/backend/internal/auth"
	"github.com/voiceshield-labs/voiceshield/backend/internal/core/domain"
	"github.com/voiceshield-labs/voiceshield/backend/internal/core/ports"
)

// Accounts handles signup and login.
type Accounts struct {
	users  ports.UserRepository
	tokens *auth.TokenService
}

// NewAccounts constructs an Accounts service.
func NewAccounts(users ports.UserRepository, tokens *auth.TokenService) *Accounts {
	return &Accounts{users: users, tokens: tokens}
}

// SignUp registers a new account and returns the user with a fresh
// access token. A taken email wraps domain.ErrDuplicateEmail.
func (a *Accounts) SignUp(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.User{}, "", errors.New("service: email and password are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service: %w", err)
	}

	user, err := a.users.CreateUser(ctx, email, hash)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service: create user: %w", err)
	}

	token, err := a.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service: issue token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh access
// token. Unknown email and wrong password both surface as
// domain.ErrInvalidCredentials so the response does not leak which it
// was.
func (a *Accounts) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	user, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", domain.ErrInvalidCredentials
		}
		return domain.User{}, "", fmt.Errorf("service: load user: %w", err)
	}

	if !auth.CheckPassword(user.Hash, password) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service: issue token: %w", err)
	}
	return user, token, nil
}
