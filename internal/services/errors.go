package services

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrResetTokenExpired  = errors.New("password reset token expired")
	ErrStorageDisabled    = errors.New("export storage is not configured")
)
