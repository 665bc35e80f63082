package domain

import (
	"time"
)

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "bearer"

// User is a registered account. Usernames and emails are unique.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns an active, non-admin user ready to be stored. The store
// assigns ID and timestamps.
func NewUser(username, email, passwordHash string) *User {
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
}

// Token is the result of a successful login or refresh.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"-"`
}

// TokenStatus describes a presented access token.
type TokenStatus struct {
	Valid            bool      `json:"valid"`
	Username         string    `json:"username"`
	ExpiresAt        time.Time `json:"expires_at"`
	ExpiresInSeconds int64     `json:"expires_in_seconds"`
}

// NewTokenStatus computes the remaining lifetime of a token relative to now.
func NewTokenStatus(username string, expiresAt, now time.Time) TokenStatus {
	remaining := int64(expiresAt.Sub(now) / time.Second)
	if remaining < 0 {
		remaining = 0
	}
	return TokenStatus{
		Valid:            true,
		Username:         username,
		ExpiresAt:        expiresAt.UTC(),
		ExpiresInSeconds: remaining,
	}
}
