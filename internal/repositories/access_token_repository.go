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

type AccessTokenRepository interface {
	Create(ctx context.Context, userID int64, tokenID string, expiresAt time.Time) error
	GetByTokenID(ctx context.Context, tokenID string) (*models.AccessToken, error)
	Revoke(ctx context.Context, tokenID string, at time.Time) error
}

type accessTokenRepository struct {
	db dbx.DBTX
}

func NewAccessTokenRepository(db dbx.DBTX) AccessTokenRepository {
	return &accessTokenRepository{db: db}
}

func (r *accessTokenRepository) Create(ctx context.Context, userID int64, tokenID string, expiresAt time.Time) error {
	const q = `INSERT INTO access_tokens (user_id, token_id, expires_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, q, userID, tokenID, expiresAt); err != nil {
		return fmt.Errorf("access token create: %w", err)
	}
	return nil
}

func (r *accessTokenRepository) GetByTokenID(ctx context.Context, tokenID string) (*models.AccessToken, error) {
	const q = `
		SELECT id, user_id, token_id, expires_at, revoked_at, created_at
		FROM access_tokens
		WHERE token_id = $1
	`
	t := &models.AccessToken{}
	var revokedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, tokenID).
		Scan(&t.ID, &t.UserID, &t.TokenID, &t.ExpiresAt, &revokedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("access token by id: %w", err)
	}
	if revokedAt.Valid {
		at := revokedAt.Time
		t.RevokedAt = &at
	}
	return t, nil
}

func (r *accessTokenRepository) Revoke(ctx context.Context, tokenID string, at time.Time) error {
	const q = `UPDATE access_tokens SET revoked_at = $1 WHERE token_id = $2 AND revoked_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, at, tokenID)
	if err != nil {
		return fmt.Errorf("access token revoke: %w", err)
	}
	return expectAffected(res)
}
