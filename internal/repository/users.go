package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ronsway/MakeMyDay/internal/model"

	"github.com/google/uuid"
)

// CreateUser inserts a new account row
func (r *PostgresRepository) CreateUser(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	query := `
		INSERT INTO users (id, email, password_hash, name, phone, verified, verify_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Phone, user.Verified, user.VerifyToken,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UserByEmail returns the user with the given email, nil when absent
func (r *PostgresRepository) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `
		SELECT id, email, password_hash, name, phone, verified, verify_token, created_at, updated_at
		FROM users WHERE email = $1
	`
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}
	return &user, nil
}

// UserByID returns the user with the given id, nil when absent
func (r *PostgresRepository) UserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	query := `
		SELECT id, email, password_hash, name, phone, verified, verify_token, created_at, updated_at
		FROM users WHERE id = $1
	`
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// UpdateUserProfile updates the mutable profile fields
func (r *PostgresRepository) UpdateUserProfile(ctx context.Context, id string, name *string, phone *string) (*model.User, error) {
	var user model.User
	query := `
		UPDATE users
		SET name = COALESCE($2, name), phone = COALESCE($3, phone), updated_at = NOW()
		WHERE id = $1
		RETURNING id, email, password_hash, name, phone, verified, verify_token, created_at, updated_at
	`
	err := r.db.GetContext(ctx, &user, query, id, name, phone)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &user, nil
}

// UpdateUserPassword replaces the stored password hash
func (r *PostgresRepository) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// MarkUserVerified clears the verification token for the matching user and
// returns the verified user, nil when the token is unknown
func (r *PostgresRepository) MarkUserVerified(ctx context.Context, verifyToken string) (*model.User, error) {
	var user model.User
	query := `
		UPDATE users
		SET verified = TRUE, verify_token = NULL, updated_at = NOW()
		WHERE verify_token = $1
		RETURNING id, email, password_hash, name, phone, verified, verify_token, created_at, updated_at
	`
	err := r.db.GetContext(ctx, &user, query, verifyToken)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}
	return &user, nil
}

// SetUserResetToken stores a password reset token with its expiry for the
// user with the given email, nil when the email is unknown
func (r *PostgresRepository) SetUserResetToken(ctx context.Context, email, token string, expires time.Time) (*model.User, error) {
	var user model.User
	query := `
		UPDATE users
		SET reset_token = $2, reset_expires = $3, updated_at = NOW()
		WHERE email = $1
		RETURNING id, email, password_hash, name, phone, verified, verify_token, created_at, updated_at
	`
	err := r.db.GetContext(ctx, &user, query, email, token, expires)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to set reset token: %w", err)
	}
	return &user, nil
}

// UserByResetToken returns the user holding an unexpired reset token, nil
// when the token is unknown or expired
func (r *PostgresRepository) UserByResetToken(ctx context.Context, token string, now time.Time) (*model.User, error) {
	var user model.User
	query := `
		SELECT id, email, password_hash, name, phone, verified, verify_token, created_at, updated_at
		FROM users
		WHERE reset_token = $1 AND reset_expires > $2
	`
	err := r.db.GetContext(ctx, &user, query, token, now)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user by reset token: %w", err)
	}
	return &user, nil
}

// ClearUserResetToken removes a consumed or stale reset token
func (r *PostgresRepository) ClearUserResetToken(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET reset_token = NULL, reset_expires = NULL, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to clear reset token: %w", err)
	}
	return nil
}

// CreateSession stores a refresh-token session
func (r *PostgresRepository) CreateSession(ctx context.Context, session *model.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	query := `
		INSERT INTO sessions (id, user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		session.ID, session.UserID, session.RefreshToken, session.UserAgent, session.IPAddress, session.ExpiresAt,
	).Scan(&session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// SessionByToken returns the unexpired session for a refresh token, nil when absent
func (r *PostgresRepository) SessionByToken(ctx context.Context, refreshToken string) (*model.Session, error) {
	var session model.Session
	query := `
		SELECT id, user_id, refresh_token, user_agent, ip_address, expires_at, created_at
		FROM sessions
		WHERE refresh_token = $1 AND expires_at > NOW()
	`
	err := r.db.GetContext(ctx, &session, query, refreshToken)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	return &session, nil
}

// DeleteSessionsForUser removes every session belonging to a user
func (r *PostgresRepository) DeleteSessionsForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiry and returns the
// number deleted
func (r *PostgresRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	deleted, _ := res.RowsAffected()
	return deleted, nil
}
