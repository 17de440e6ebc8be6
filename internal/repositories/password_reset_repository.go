package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"carnet/internal/dbx"
	"carnet/internal/models"
)

type PasswordResetRepository interface {
	// Upsert creates the user's reset token or replaces the existing one.
	Upsert(ctx context.Context, userID int64, token string, expiresAt time.Time) (*models.PasswordResetToken, error)
	GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
}

type passwordResetRepository struct {
	db dbx.DBTX
}

func NewPasswordResetRepository(db dbx.DBTX) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Upsert(ctx context.Context, userID int64, token string, expiresAt time.Time) (*models.PasswordResetToken, error) {
	const q = `
		INSERT INTO password_reset_tokens (user_id, reset_token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET reset_token = EXCLUDED.reset_token,
		    expires_at  = EXCLUDED.expires_at,
		    updated_at  = NOW()
		RETURNING id, created_at, updated_at
	`
	pr := &models.PasswordResetToken{UserID: userID, ResetToken: token, ExpiresAt: expiresAt}
	if err := r.db.QueryRowContext(ctx, q, userID, token, expiresAt).Scan(&pr.ID, &pr.CreatedAt, &pr.UpdatedAt); err != nil {
		return nil, fmt.Errorf("password reset upsert: %w", err)
	}
	return pr, nil
}

func (r *passwordResetRepository) GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	const q = `
		SELECT id, user_id, reset_token, expires_at, created_at, updated_at
		FROM password_reset_tokens
		WHERE reset_token = $1
	`
	pr := &models.PasswordResetToken{}
	err := r.db.QueryRowContext(ctx, q, token).
		Scan(&pr.ID, &pr.UserID, &pr.ResetToken, &pr.ExpiresAt, &pr.CreatedAt, &pr.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("password reset by token: %w", err)
	}
	return pr, nil
}
