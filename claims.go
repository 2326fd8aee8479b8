package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by a bearer token. Subject holds the
// account id.
type Claims struct {
	jwt.RegisteredClaims
}

// NewClaims returns claims for the given account id
func NewClaims(accountID string) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: accountID,
		},
	}
}

// AccountID returns the subject claim
func (c *Claims) AccountID() string {
	return c.RegisteredClaims.Subject
}

// TokenID returns the jti claim
func (c *Claims) TokenID() string {
	return c.RegisteredClaims.ID
}

// Expires returns the expiration time, zero when the token does not expire
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAtTime returns the issued at time
func (c *Claims) IssuedAtTime() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
