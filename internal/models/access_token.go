package models

import "time"

// AccessToken records an issued bearer token by its JWT ID so it can be
// revoked on logout.
type AccessToken struct {
	ID        int64
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (t *AccessToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

type IssuedToken struct {
	Type      string    `json:"type"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
