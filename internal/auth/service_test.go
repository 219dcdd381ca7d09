package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ronsway/MakeMyDay/internal/config"
	"github.com/ronsway/MakeMyDay/internal/model"
)

// memStore is an in-memory Store for service tests
type memStore struct {
	users    map[string]*model.User // by id
	sessions map[string]*model.Session
	nextID   int
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*model.User),
		sessions: make(map[string]*model.Session),
	}
}

func (m *memStore) CreateUser(_ context.Context, user *model.User) error {
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memStore) UserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memStore) UserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (m *memStore) UpdateUserProfile(_ context.Context, id string, name *string, phone *string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	if name != nil {
		u.Name = *name
	}
	if phone != nil {
		u.Phone = phone
	}
	clone := *u
	return &clone, nil
}

func (m *memStore) UpdateUserPassword(_ context.Context, id, passwordHash string) error {
	if u, ok := m.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (m *memStore) MarkUserVerified(_ context.Context, verifyToken string) (*model.User, error) {
	for _, u := range m.users {
		if u.VerifyToken != nil && *u.VerifyToken == verifyToken {
			u.Verified = true
			u.VerifyToken = nil
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memStore) SetUserResetToken(_ context.Context, email, token string, expires time.Time) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			u.ResetToken = &token
			exp := expires
			u.ResetExpires = &exp
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memStore) UserByResetToken(_ context.Context, token string, now time.Time) (*model.User, error) {
	for _, u := range m.users {
		if u.ResetToken != nil && *u.ResetToken == token &&
			u.ResetExpires != nil && u.ResetExpires.After(now) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memStore) ClearUserResetToken(_ context.Context, id string) error {
	if u, ok := m.users[id]; ok {
		u.ResetToken = nil
		u.ResetExpires = nil
	}
	return nil
}

func (m *memStore) CreateSession(_ context.Context, session *model.Session) error {
	m.nextID++
	session.ID = fmt.Sprintf("session-%d", m.nextID)
	clone := *session
	m.sessions[session.RefreshToken] = &clone
	return nil
}

func (m *memStore) SessionByToken(_ context.Context, refreshToken string) (*model.Session, error) {
	s, ok := m.sessions[refreshToken]
	if !ok {
		return nil, nil
	}
	clone := *s
	return &clone, nil
}

func (m *memStore) DeleteSessionsForUser(_ context.Context, userID string) error {
	for token, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, token)
		}
	}
	return nil
}

func testConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:          "test-secret",
		AccessTokenTTLMin:  60,
		RefreshTokenTTLDay: 30,
		BcryptCost:         4, // minimum cost, keep tests fast
	}
}

func registerRequest() model.RegisterRequest {
	return model.RegisterRequest{
		Email:    "Parent@Example.com",
		Password: "correct-horse",
		Name:     "הורה בדיקה",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testConfig())

	resp, verifyToken, err := svc.Register(context.Background(), registerRequest(), "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.User.Email != "parent@example.com" {
		t.Errorf("expected lowercased email, got %q", resp.User.Email)
	}
	if resp.User.Verified {
		t.Errorf("new accounts should start unverified")
	}
	if verifyToken == "" {
		t.Errorf("expected a verification token")
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Errorf("expected a full token pair")
	}
	if resp.Tokens.ExpiresIn != 3600 {
		t.Errorf("expected 3600s expiry, got %d", resp.Tokens.ExpiresIn)
	}

	login, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "parent@example.com",
		Password: "correct-horse",
	}, "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Errorf("login returned a different user")
	}

	payload, err := svc.Verify(login.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if payload.UserID != resp.User.ID {
		t.Errorf("token payload user %q, want %q", payload.UserID, resp.User.ID)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testConfig())

	if _, _, err := svc.Register(context.Background(), registerRequest(), "", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	_, _, err := svc.Register(context.Background(), registerRequest(), "", "")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testConfig())

	if _, _, err := svc.Register(context.Background(), registerRequest(), "", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "parent@example.com",
		Password: "wrong-password",
	}, "", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	_, err = svc.Login(context.Background(), model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	}, "", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testConfig())

	resp, _, err := svc.Register(context.Background(), registerRequest(), "", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tokens, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if tokens.AccessToken == "" {
		t.Errorf("expected a fresh access token")
	}
	if tokens.RefreshToken != resp.Tokens.RefreshToken {
		t.Errorf("refresh should keep the same refresh token")
	}

	if _, err := svc.Refresh(context.Background(), "unknown-token"); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession for unknown token, got %v", err)
	}
}

func TestLogoutRevokesSessions(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testConfig())

	resp, _, err := svc.Register(context.Background(), registerRequest(), "", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.Logout(context.Background(), resp.Tokens.AccessToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected refresh to fail after logout, got %v", err)
	}
}

func TestVerifyEmail(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testConfig())

	_, verifyToken, err := svc.Register(context.Background(), registerRequest(), "", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := svc.VerifyEmail(context.Background(), verifyToken)
	if err != nil {
		t.Fatalf("VerifyEmail failed: %v", err)
	}
	if !user.Verified {
		t.Errorf("user should be verified")
	}

	if _, err := svc.VerifyEmail(context.Background(), "bogus"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for a bogus token, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testConfig())

	resp, _, err := svc.Register(context.Background(), registerRequest(), "", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err = svc.ChangePassword(context.Background(), resp.User.ID, model.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "brand-new-pass",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	err = svc.ChangePassword(context.Background(), resp.User.ID, model.ChangePasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "brand-new-pass",
	})
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	// Old sessions are revoked, new password works
	if _, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected sessions to be revoked after password change, got %v", err)
	}
	if _, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "parent@example.com",
		Password: "brand-new-pass",
	}, "", ""); err != nil {
		t.Errorf("login with the new password failed: %v", err)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testConfig())

	resp, _, err := svc.Register(context.Background(), registerRequest(), "", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	token, err := svc.ForgotPassword(context.Background(), "Parent@Example.com")
	if err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a reset token for a known email")
	}

	if err := svc.ResetPassword(context.Background(), token, "after-reset-pass"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	// Sessions are revoked and the old password no longer works
	if _, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected sessions to be revoked after reset, got %v", err)
	}
	if _, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "parent@example.com",
		Password: "correct-horse",
	}, "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected old password to be rejected, got %v", err)
	}
	if _, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "parent@example.com",
		Password: "after-reset-pass",
	}, "", ""); err != nil {
		t.Errorf("login with the new password failed: %v", err)
	}

	// The token is single-use
	if err := svc.ResetPassword(context.Background(), token, "yet-another-pass"); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("expected a consumed token to be rejected, got %v", err)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testConfig())

	token, err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword should not fail for an unknown email: %v", err)
	}
	if token != "" {
		t.Errorf("an unknown email must not yield a reset token")
	}
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testConfig())

	resp, _, err := svc.Register(context.Background(), registerRequest(), "", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	token, err := svc.ForgotPassword(context.Background(), "parent@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}

	// Age the token past its expiry
	expired := time.Now().Add(-time.Minute)
	store.users[resp.User.ID].ResetExpires = &expired

	if err := svc.ResetPassword(context.Background(), token, "brand-new-pass"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken for an expired token, got %v", err)
	}

	if err := svc.ResetPassword(context.Background(), "bogus", "brand-new-pass"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken for an unknown token, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testConfig())

	resp, _, err := svc.Register(context.Background(), registerRequest(), "", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	name := "שם חדש"
	user, err := svc.UpdateProfile(context.Background(), resp.User.ID, model.UpdateProfileRequest{Name: &name})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.Name != name {
		t.Errorf("expected name %q, got %q", name, user.Name)
	}

	if _, err := svc.UpdateProfile(context.Background(), "missing", model.UpdateProfileRequest{}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
