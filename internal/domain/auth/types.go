package auth

import "time"

// Config drives token verification.
type Config struct {
	Secret   string
	Issuer   string
	Required bool
	TokenTTL time.Duration
}

// Claims are extracted from the JWT token.
type Claims struct {
	AccountID string
	ExpiresAt time.Time
}
