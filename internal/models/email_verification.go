package models

import "time"

type EmailVerificationToken struct {
	ID                int64      `json:"id"`
	UserID            int64      `json:"user_id"`
	VerificationToken string     `json:"-"`
	IsVerified        bool       `json:"is_verified"`
	VerifiedAt        *time.Time `json:"verified_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
