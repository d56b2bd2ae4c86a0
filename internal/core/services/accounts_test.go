package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/voiceshield-labs/voiceshield/backend/internal/auth"
	"github.com/voiceshield-labs/voiceshield/backend/internal/core/domain"
)

type mockUserRepo struct {
	createErr error
	getErr    error
	user      domain.User

	createdEmail string
	createdHash  string
}

func (m *mockUserRepo) CreateUser(ctx context.Context, email, hash string) (domain.User, error) {
	m.createdEmail = email
	m.createdHash = hash
	if m.createErr != nil {
		return domain.User{}, m.createErr
	}
	return domain.User{ID: 1, Email: email, Hash: hash}, nil
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.getErr != nil {
		return domain.User{}, m.getErr
	}
	return m.user, nil
}

func testTokens() *auth.TokenService {
	return auth.NewTokenService("test-secret", time.Hour)
}

func TestAccounts_SignUp(t *testing.T) {
	repo := &mockUserRepo{}
	a := NewAccounts(repo, testTokens())

	user, token, err := a.SignUp(context.Background(), "  Alice@Example.COM ", "hunter2hunter2")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want lowercased and trimmed", user.Email)
	}
	if repo.createdEmail != "alice@example.com" {
		t.Errorf("repo saw email %q", repo.createdEmail)
	}
	if repo.createdHash == "hunter2hunter2" || repo.createdHash == "" {
		t.Error("password must be stored hashed")
	}
	if token == "" {
		t.Error("expected an access token")
	}
}

func TestAccounts_SignUp_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{createErr: domain.ErrDuplicateEmail}
	a := NewAccounts(repo, testTokens())

	_, _, err := a.SignUp(context.Background(), "bob@example.com", "hunter2hunter2")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("err = %v, want wrapped ErrDuplicateEmail", err)
	}
}

func TestAccounts_SignUp_Validation(t *testing.T) {
	tests := []struct {
		name, email, password string
	}{
		{"missing email", "", "hunter2hunter2"},
		{"missing password", "bob@example.com", ""},
		{"short password", "bob@example.com", "short"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAccounts(&mockUserRepo{}, testTokens())
			if _, _, err := a.SignUp(context.Background(), tc.email, tc.password); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestAccounts_Login(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}
	stored := domain.User{ID: 7, Email: "carol@example.com", Hash: hash}

	tests := []struct {
		name     string
		repo     *mockUserRepo
		email    string
		password string
		wantErr  error
	}{
		{"valid credentials", &mockUserRepo{user: stored}, "carol@example.com", "hunter2hunter2", nil},
		{"email is normalized", &mockUserRepo{user: stored}, " CAROL@example.com ", "hunter2hunter2", nil},
		{"wrong password", &mockUserRepo{user: stored}, "carol@example.com", "wrong-password", domain.ErrInvalidCredentials},
		{"unknown email", &mockUserRepo{getErr: domain.ErrNotFound}, "nobody@example.com", "hunter2hunter2", domain.ErrInvalidCredentials},
		{"empty password", &mockUserRepo{user: stored}, "carol@example.com", "", domain.ErrInvalidCredentials},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAccounts(tc.repo, testTokens())
			user, token, err := a.Login(context.Background(), tc.email, tc.password)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login: %v", err)
			}
			if user.ID != stored.ID {
				t.Errorf("user ID = %d, want %d", user.ID, stored.ID)
			}
			if token == "" {
				t.Error("expected an access token")
			}
		})
	}
}

func TestAccounts_Login_RepoFailureIsNotCredentialError(t *testing.T) {
	repo := &mockUserRepo{getErr: errors.New("disk on fire")}
	a := NewAccounts(repo, testTokens())

	_, _, err := a.Login(context.Background(), "carol@example.com", "hunter2hunter2")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want a wrapped storage error", err)
	}
}
