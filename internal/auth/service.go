// Package auth implements account registration, login and token lifecycle
// for the API: short-lived JWT access tokens plus database-backed refresh
// sessions.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ronsway/MakeMyDay/internal/config"
	"github.com/ronsway/MakeMyDay/internal/model"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSession     = errors.New("invalid or expired refresh token")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrUserNotFound       = errors.New("user not found")
)

// resetTokenTTL bounds how long a password reset token stays usable
const resetTokenTTL = time.Hour

// Store is the persistence surface the auth service needs
type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUserProfile(ctx context.Context, id string, name *string, phone *string) (*model.User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
	MarkUserVerified(ctx context.Context, verifyToken string) (*model.User, error)
	SetUserResetToken(ctx context.Context, email, token string, expires time.Time) (*model.User, error)
	UserByResetToken(ctx context.Context, token string, now time.Time) (*model.User, error)
	ClearUserResetToken(ctx context.Context, id string) error
	CreateSession(ctx context.Context, session *model.Session) error
	SessionByToken(ctx context.Context, refreshToken string) (*model.Session, error)
	DeleteSessionsForUser(ctx context.Context, userID string) error
}

// Service implements registration, login and token refresh
type Service struct {
	store Store
	cfg   config.AuthConfig
}

// NewService creates a new auth service
func NewService(store Store, cfg config.AuthConfig) *Service {
	return &Service{store: store, cfg: cfg}
}

// Register creates an account and issues a first token pair. The returned
// verify token is meant to be delivered out of band (email).
func (s *Service) Register(ctx context.Context, req model.RegisterRequest, userAgent, ip string) (*model.AuthResponse, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	verifyToken, err := randomToken()
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Phone:        req.Phone,
		Verified:     false,
		VerifyToken:  &verifyToken,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	tokens, err := s.issueTokens(ctx, user, userAgent, ip)
	if err != nil {
		return nil, "", err
	}
	return &model.AuthResponse{User: *user, Tokens: *tokens}, verifyToken, nil
}

// Login validates credentials and issues a fresh token pair
func (s *Service) Login(ctx context.Context, req model.LoginRequest, userAgent, ip string) (*model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user, userAgent, ip)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{User: *user, Tokens: *tokens}, nil
}

// Refresh exchanges a valid refresh token for a new access token
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.AuthTokens, error) {
	session, err := s.store.SessionByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrInvalidSession
	}

	user, err := s.store.UserByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidSession
	}

	ttl := s.accessTTL()
	access, err := GenerateToken([]byte(s.cfg.JWTSecret), user.ID, user.Email, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	return &model.AuthTokens{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(ttl.Seconds()),
	}, nil
}

// Logout invalidates every session of the token's user
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	payload, err := ParseToken([]byte(s.cfg.JWTSecret), accessToken)
	if err != nil {
		return ErrInvalidSession
	}
	return s.store.DeleteSessionsForUser(ctx, payload.UserID)
}

// Verify validates an access token and returns its payload
func (s *Service) Verify(tokenString string) (*TokenPayload, error) {
	return ParseToken([]byte(s.cfg.JWTSecret), tokenString)
}

// VerifyEmail consumes a verification token
func (s *Service) VerifyEmail(ctx context.Context, verifyToken string) (*model.User, error) {
	user, err := s.store.MarkUserVerified(ctx, verifyToken)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetUser returns the user for an id
func (s *Service) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile updates name and phone
func (s *Service) UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.store.UpdateUserProfile(ctx, userID, req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ForgotPassword issues a one-hour reset token meant to be delivered out of
// band. An unknown email yields an empty token and no error so callers
// cannot probe which accounts exist.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	token, err := randomToken()
	if err != nil {
		return "", err
	}

	user, err := s.store.SetUserResetToken(ctx, email, token, time.Now().Add(resetTokenTTL))
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	return token, nil
}

// ResetPassword consumes a reset token, stores the new password hash and
// revokes every session of the user
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.store.UserByResetToken(ctx, token, time.Now())
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.store.UpdateUserPassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	if err := s.store.ClearUserResetToken(ctx, user.ID); err != nil {
		return err
	}
	return s.store.DeleteSessionsForUser(ctx, user.ID)
}

// ChangePassword verifies the current password before storing a new hash
// and revokes existing sessions
func (s *Service) ChangePassword(ctx context.Context, userID string, req model.ChangePasswordRequest) error {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.store.UpdateUserPassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	return s.store.DeleteSessionsForUser(ctx, userID)
}

func (s *Service) issueTokens(ctx context.Context, user *model.User, userAgent, ip string) (*model.AuthTokens, error) {
	ttl := s.accessTTL()
	access, err := GenerateToken([]byte(s.cfg.JWTSecret), user.ID, user.Email, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := randomToken()
	if err != nil {
		return nil, err
	}
	session := &model.Session{
		UserID:       user.ID,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(time.Duration(s.cfg.RefreshTokenTTLDay) * 24 * time.Hour),
	}
	if userAgent != "" {
		session.UserAgent = &userAgent
	}
	if ip != "" {
		session.IPAddress = &ip
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &model.AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(ttl.Seconds()),
	}, nil
}

func (s *Service) accessTTL() time.Duration {
	return time.Duration(s.cfg.AccessTokenTTLMin) * time.Minute
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
