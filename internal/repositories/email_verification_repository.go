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

type EmailVerificationRepository interface {
	Create(ctx context.Context, userID int64, token string) (*models.EmailVerificationToken, error)
	GetByToken(ctx context.Context, token string) (*models.EmailVerificationToken, error)
	GetByUserID(ctx context.Context, userID int64) (*models.EmailVerificationToken, error)
	MarkVerified(ctx context.Context, id int64, at time.Time) error
}

type emailVerificationRepository struct {
	db dbx.DBTX
}

func NewEmailVerificationRepository(db dbx.DBTX) EmailVerificationRepository {
	return &emailVerificationRepository{db: db}
}

const verificationColumns = `id, user_id, verification_token, is_verified, verified_at, created_at, updated_at`

func scanVerification(row *sql.Row) (*models.EmailVerificationToken, error) {
	v := &models.EmailVerificationToken{}
	var verifiedAt sql.NullTime
	err := row.Scan(&v.ID, &v.UserID, &v.VerificationToken, &v.IsVerified, &verifiedAt, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("email verification scan: %w", err)
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		v.VerifiedAt = &t
	}
	return v, nil
}

func (r *emailVerificationRepository) Create(ctx context.Context, userID int64, token string) (*models.EmailVerificationToken, error) {
	const q = `
		INSERT INTO email_verification_tokens (user_id, verification_token)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	v := &models.EmailVerificationToken{UserID: userID, VerificationToken: token}
	if err := r.db.QueryRowContext(ctx, q, userID, token).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, fmt.Errorf("email verification create: %w", err)
	}
	return v, nil
}

func (r *emailVerificationRepository) GetByToken(ctx context.Context, token string) (*models.EmailVerificationToken, error) {
	q := `SELECT ` + verificationColumns + ` FROM email_verification_tokens WHERE verification_token = $1`
	return scanVerification(r.db.QueryRowContext(ctx, q, token))
}

func (r *emailVerificationRepository) GetByUserID(ctx context.Context, userID int64) (*models.EmailVerificationToken, error) {
	q := `SELECT ` + verificationColumns + ` FROM email_verification_tokens WHERE user_id = $1`
	return scanVerification(r.db.QueryRowContext(ctx, q, userID))
}

func (r *emailVerificationRepository) MarkVerified(ctx context.Context, id int64, at time.Time) error {
	const q = `
		UPDATE email_verification_tokens
		SET is_verified = TRUE, verified_at = $1, updated_at = $1
		WHERE id = $2
	`
	res, err := r.db.ExecContext(ctx, q, at, id)
	if err != nil {
		return fmt.Errorf("email verification mark verified: %w", err)
	}
	return expectAffected(res)
}
