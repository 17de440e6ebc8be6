package models

import "strings"

type SignupRequest struct {
	Username             string `json:"username" validate:"required,min=2,max=100"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=10,maxbytes=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

func (r *SignupRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = normalizeEmail(r.Email)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ForgotPasswordRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

type ResetPasswordRequest struct {
	Password             string `json:"password" validate:"required,min=10,maxbytes=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// NoteRequest is the body of note create and update.
type NoteRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content"`
}

func (r *NoteRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
