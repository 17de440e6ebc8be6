package repositories

import "carnet/internal/dbx"

// Manager vends repositories bound to a DBTX, so a service can run several
// of them inside one transaction.
type Manager interface {
	Users(db dbx.DBTX) UserRepository
	Notes(db dbx.DBTX) NoteRepository
	EmailVerifications(db dbx.DBTX) EmailVerificationRepository
	PasswordResets(db dbx.DBTX) PasswordResetRepository
	AccessTokens(db dbx.DBTX) AccessTokenRepository
}

type PostgresManager struct{}

func NewPostgresManager() *PostgresManager {
	return &PostgresManager{}
}

func (PostgresManager) Users(db dbx.DBTX) UserRepository { return NewUserRepository(db) }

func (PostgresManager) Notes(db dbx.DBTX) NoteRepository { return NewNoteRepository(db) }

func (PostgresManager) EmailVerifications(db dbx.DBTX) EmailVerificationRepository {
	return NewEmailVerificationRepository(db)
}

func (PostgresManager) PasswordResets(db dbx.DBTX) PasswordResetRepository {
	return NewPasswordResetRepository(db)
}

func (PostgresManager) AccessTokens(db dbx.DBTX) AccessTokenRepository {
	return NewAccessTokenRepository(db)
}
