package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tok = "0b6a7d3e-2f4c-4a8e-9b1d-3c5e7f9a1b2c"

var verificationCols = []string{"id", "user_id", "verification_token", "is_verified", "verified_at", "created_at", "updated_at"}

func TestEmailVerificationRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+email_verification_tokens\s*\(user_id,\s*verification_token\)`).
		WithArgs(int64(1), tok).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(3, now, now))

	v, err := NewEmailVerificationRepository(db).Create(context.Background(), 1, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.ID)
	assert.False(t, v.IsVerified)
	assert.Equal(t, tok, v.VerificationToken)
}

func TestEmailVerificationRepository_GetByToken(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM\s+email_verification_tokens\s+WHERE\s+verification_token\s*=\s*\$1`).
		WithArgs(tok).
		WillReturnRows(sqlmock.NewRows(verificationCols).AddRow(3, 1, tok, true, now, now, now))

	v, err := NewEmailVerificationRepository(db).GetByToken(context.Background(), tok)
	require.NoError(t, err)
	assert.True(t, v.IsVerified)
	require.NotNil(t, v.VerifiedAt)
	assert.Equal(t, now, *v.VerifiedAt)
}

func TestEmailVerificationRepository_GetByUserIDNotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`WHERE\s+user_id\s*=\s*\$1`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(verificationCols))

	_, err := NewEmailVerificationRepository(db).GetByUserID(context.Background(), 8)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmailVerificationRepository_MarkVerified(t *testing.T) {
	db, mock := newMock(t)
	at := time.Now().UTC()

	mock.ExpectExec(`(?s)UPDATE\s+email_verification_tokens\s+SET\s+is_verified\s*=\s*TRUE,\s*verified_at\s*=\s*\$1`).
		WithArgs(at, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewEmailVerificationRepository(db).MarkVerified(context.Background(), 3, at))
}

func TestPasswordResetRepository_Upsert(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	expires := now.Add(15 * time.Minute)

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+password_reset_tokens.*ON\s+CONFLICT\s+\(user_id\)\s+DO\s+UPDATE`).
		WithArgs(int64(1), tok, expires).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(2, now, now))

	pr, err := NewPasswordResetRepository(db).Upsert(context.Background(), 1, tok, expires)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pr.ID)
	assert.Equal(t, expires, pr.ExpiresAt)
}

func TestPasswordResetRepository_GetByToken(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	repo := NewPasswordResetRepository(db)
	cols := []string{"id", "user_id", "reset_token", "expires_at", "created_at", "updated_at"}

	mock.ExpectQuery(`FROM\s+password_reset_tokens\s+WHERE\s+reset_token\s*=\s*\$1`).
		WithArgs(tok).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(2, 1, tok, now, now, now))
	pr, err := repo.GetByToken(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pr.UserID)

	mock.ExpectQuery(`FROM\s+password_reset_tokens`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(cols))
	_, err = repo.GetByToken(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccessTokenRepository_Lifecycle(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	expires := now.Add(24 * time.Hour)
	repo := NewAccessTokenRepository(db)
	cols := []string{"id", "user_id", "token_id", "expires_at", "revoked_at", "created_at"}

	mock.ExpectExec(`INSERT\s+INTO\s+access_tokens\s*\(user_id,\s*token_id,\s*expires_at\)`).
		WithArgs(int64(1), tok, expires).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Create(context.Background(), 1, tok, expires))

	mock.ExpectQuery(`FROM\s+access_tokens\s+WHERE\s+token_id\s*=\s*\$1`).
		WithArgs(tok).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, 1, tok, expires, nil, now))
	at, err := repo.GetByTokenID(context.Background(), tok)
	require.NoError(t, err)
	assert.True(t, at.Active(now))

	mock.ExpectExec(`UPDATE\s+access_tokens\s+SET\s+revoked_at\s*=\s*\$1\s+WHERE\s+token_id\s*=\s*\$2\s+AND\s+revoked_at\s+IS\s+NULL`).
		WithArgs(now, tok).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Revoke(context.Background(), tok, now))

	mock.ExpectExec(`UPDATE\s+access_tokens`).
		WithArgs(now, tok).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Revoke(context.Background(), tok, now), ErrNotFound)
}

func TestPostgresManager(t *testing.T) {
	db, _ := newMock(t)
	m := NewPostgresManager()

	assert.NotNil(t, m.Users(db))
	assert.NotNil(t, m.Notes(db))
	assert.NotNil(t, m.EmailVerifications(db))
	assert.NotNil(t, m.PasswordResets(db))
	assert.NotNil(t, m.AccessTokens(db))
}
