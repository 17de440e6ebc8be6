package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"carnet/internal/dbx"
	"carnet/internal/logging"
	"carnet/internal/models"
	"carnet/internal/repositories"
	"carnet/internal/validation"
)

// AccountService covers signup and email verification.
type AccountService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) error
	// ResendVerification reports alreadyVerified=true when nothing was sent.
	ResendVerification(ctx context.Context, email string) (alreadyVerified bool, err error)
}

type accountService struct {
	db     *sql.DB
	repos  repositories.Manager
	auth   AuthService
	emails EmailService
	log    logging.Logger
	now    func() time.Time
}

func NewAccountService(db *sql.DB, repos repositories.Manager, auth AuthService, emails EmailService, log logging.Logger) AccountService {
	return &accountService{
		db:     db,
		repos:  repos,
		auth:   auth,
		emails: emails,
		log:    log.With("service", "account"),
		now:    time.Now,
	}
}

// Signup expects a request that already passed validation.Struct. It adds
// the uniqueness rules, then creates the user and the verification token in
// one transaction.
func (s *accountService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if err := s.checkUnique(ctx, req); err != nil {
		return nil, err
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Username: req.Username, Email: req.Email, Password: hash}
	token := uuid.NewString()

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Users(tx).Create(ctx, user); err != nil {
			return err
		}
		_, err := s.repos.EmailVerifications(tx).Create(ctx, user.ID, token)
		return err
	})
	if err != nil {
		if constraint, ok := repositories.IsUniqueViolation(err); ok {
			return nil, uniqueViolation(constraint)
		}
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.log.Info(ctx, "user signed up", "user_id", user.ID)
	if err := s.emails.SendVerificationEmail(ctx, user, token); err != nil {
		s.log.Warn(ctx, "verification email not queued", "user_id", user.ID, "err", err)
	}
	return user, nil
}

func (s *accountService) checkUnique(ctx context.Context, req *models.SignupRequest) error {
	users := s.repos.Users(s.db)
	var errs validation.Errors

	taken, err := users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if taken {
		errs = append(errs, takenError("username"))
	}
	taken, err = users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if taken {
		errs = append(errs, takenError("email"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func takenError(field string) validation.FieldError {
	return validation.FieldError{Field: field, Rule: "unique", Message: field + " has already been taken"}
}

// uniqueViolation maps a constraint that lost a concurrent signup race to
// the same field error the pre-check reports.
func uniqueViolation(constraint string) error {
	switch constraint {
	case "users_username_key":
		return validation.Errors{takenError("username")}
	default:
		return validation.Errors{takenError("email")}
	}
}

func (s *accountService) VerifyEmail(ctx context.Context, token string) error {
	if _, err := uuid.Parse(token); err != nil {
		return ErrNotFound
	}
	repo := s.repos.EmailVerifications(s.db)
	v, err := repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if v.IsVerified {
		return nil
	}
	if err := repo.MarkVerified(ctx, v.ID, s.now()); err != nil {
		return err
	}
	s.log.Info(ctx, "email verified", "user_id", v.UserID)
	return nil
}

func (s *accountService) ResendVerification(ctx context.Context, email string) (bool, error) {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	repo := s.repos.EmailVerifications(s.db)
	v, err := repo.GetByUserID(ctx, user.ID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		if v, err = repo.Create(ctx, user.ID, uuid.NewString()); err != nil {
			return false, err
		}
	case err != nil:
		return false, err
	}
	if v.IsVerified {
		return true, nil
	}

	if err := s.emails.SendVerificationEmail(ctx, user, v.VerificationToken); err != nil {
		s.log.Warn(ctx, "verification email not queued", "user_id", user.ID, "err", err)
	}
	return false, nil
}
