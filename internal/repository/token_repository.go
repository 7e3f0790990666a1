package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"ireporter/internal/apperror"
	"ireporter/internal/models"
)

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// RevokeToken denylists a token id until its expiry and drops entries that
// have already expired.
func (r *tokenRepository) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < CURRENT_TIMESTAMP`); err != nil {
			return fmt.Errorf("failed to purge revoked tokens: %w", err)
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO revoked_tokens (jti, expires_at) VALUES ($1, $2) ON CONFLICT (jti) DO NOTHING`,
			jti, expiresAt)
		if err != nil {
			return classifyDBError(err, "failed to revoke token")
		}
		return nil
	})
}

func (r *tokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := r.db.GetContext(ctx, &revoked, `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`, jti)
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return revoked, nil
}

func (r *tokenRepository) CreateResetToken(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	if err := r.db.GetContext(ctx, &token.ID, query, token.UserID, token.Token, token.ExpiresAt); err != nil {
		return classifyDBError(err, "failed to store reset token")
	}
	return nil
}

// ConsumeResetToken sets a new password for the token's owner and deletes
// the token, all in one transaction.
func (r *tokenRepository) ConsumeResetToken(ctx context.Context, token, newPassword string) (int64, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	var userID int64
	err = withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var stored models.PasswordResetToken
		err := tx.GetContext(ctx, &stored, `
			SELECT * FROM password_reset_tokens
			WHERE token = $1 AND expires_at > CURRENT_TIMESTAMP
			FOR UPDATE
		`, token)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.New(apperror.Validation, "invalid or expired reset token")
			}
			return fmt.Errorf("failed to load reset token: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`,
			string(hashedPassword), stored.UserID); err != nil {
			return classifyDBError(err, "failed to update password")
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE id = $1`, stored.ID); err != nil {
			return fmt.Errorf("failed to delete reset token: %w", err)
		}

		userID = stored.UserID
		return nil
	})
	if err != nil {
		return 0, err
	}

	return userID, nil
}
