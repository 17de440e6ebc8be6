package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"carnet/internal/config"
	"carnet/internal/logging"
	"carnet/internal/models"
	"carnet/internal/repositories"
	"carnet/internal/validation"
)

// Claims are carried by every bearer token. ID (jti) keys the access_tokens
// row that logout revokes.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

type AuthService interface {
	HashPassword(password string) (string, error)
	Login(ctx context.Context, email, password string) (*models.IssuedToken, error)
	Authenticate(ctx context.Context, token string) (*Claims, error)
	Logout(ctx context.Context, claims *Claims) error
}

type authService struct {
	db     *sql.DB
	repos  repositories.Manager
	secret []byte
	ttl    time.Duration
	cost   int
	log    logging.Logger
	now    func() time.Time
}

func NewAuthService(db *sql.DB, repos repositories.Manager, cfg config.AuthConfig, log logging.Logger) AuthService {
	return &authService{
		db:     db,
		repos:  repos,
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		cost:   bcrypt.DefaultCost,
		log:    log.With("service", "auth"),
		now:    time.Now,
	}
}

func (s *authService) HashPassword(password string) (string, error) {
	if len(password) > validation.MaxPasswordBytes {
		return "", validation.Errors{{
			Field:   "password",
			Rule:    "maxbytes",
			Message: fmt.Sprintf("must be at most %d bytes", validation.MaxPasswordBytes),
		}}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.IssuedToken, error) {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.log.Info(ctx, "login rejected: unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.Info(ctx, "login rejected: password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	if err := s.repos.AccessTokens(s.db).Create(ctx, user.ID, claims.ID, claims.ExpiresAt.Time); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return &models.IssuedToken{
		Type:      "bearer",
		Token:     signed,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Authenticate parses and verifies a bearer token and checks that its jti
// has been issued and not revoked.
func (s *authService) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, ErrUnauthorized
	}

	at, err := s.repos.AccessTokens(s.db).GetByTokenID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if at.UserID != claims.UserID || !at.Active(s.now()) {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

func (s *authService) Logout(ctx context.Context, claims *Claims) error {
	err := s.repos.AccessTokens(s.db).Revoke(ctx, claims.ID, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUnauthorized
		}
		return err
	}
	s.log.Info(ctx, "token revoked", "user_id", claims.UserID)
	return nil
}
