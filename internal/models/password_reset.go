package models

import "time"

// PasswordResetToken is replaced on every forgot-password request. It is
// never marked as used: only ExpiresAt gates reuse.
type PasswordResetToken struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	ResetToken string    `json:"-"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (t *PasswordResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
