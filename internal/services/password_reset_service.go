package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"carnet/internal/logging"
	"carnet/internal/repositories"
)

type PasswordResetService interface {
	RequestReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type passwordResetService struct {
	db     *sql.DB
	repos  repositories.Manager
	auth   AuthService
	emails EmailService
	ttl    time.Duration
	log    logging.Logger
	now    func() time.Time
}

func NewPasswordResetService(db *sql.DB, repos repositories.Manager, auth AuthService, emails EmailService, ttl time.Duration, log logging.Logger) PasswordResetService {
	return &passwordResetService{
		db:     db,
		repos:  repos,
		auth:   auth,
		emails: emails,
		ttl:    ttl,
		log:    log.With("service", "password_reset"),
		now:    time.Now,
	}
}

// RequestReset replaces the user's reset token with a fresh one and mails
// the link. Unknown emails yield ErrNotFound.
func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	token := uuid.NewString()
	if _, err := s.repos.PasswordResets(s.db).Upsert(ctx, user.ID, token, s.now().Add(s.ttl)); err != nil {
		return err
	}

	if err := s.emails.SendPasswordResetEmail(ctx, user, token, fmt.Sprintf("%d minutes", int(s.ttl.Minutes()))); err != nil {
		s.log.Warn(ctx, "reset email not queued", "user_id", user.ID, "err", err)
	}
	s.log.Info(ctx, "password reset requested", "user_id", user.ID)
	return nil
}

// ResetPassword does not consume the token; it stays usable until it expires
// or a newer request replaces it.
func (s *passwordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if _, err := uuid.Parse(token); err != nil {
		return ErrNotFound
	}
	pr, err := s.repos.PasswordResets(s.db).GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	now := s.now()
	if pr.Expired(now) {
		return ErrResetTokenExpired
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repos.Users(s.db).UpdatePassword(ctx, pr.UserID, hash, now); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.log.Info(ctx, "password reset", "user_id", pr.UserID)
	return nil
}
