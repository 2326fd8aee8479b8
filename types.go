package auth

import (
	"context"
	"time"
)

// Logger is the logging contract used across the package. Args are
// key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenTTL() time.Duration
	GetIssuer() string
	GetPasswordCost() int
	GetContextKey() string
	GetAuthScheme() string
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// TokenCodec issues and verifies signed bearer tokens
type TokenCodec interface {
	Issue(claims Claims) (string, error)
	Verify(token string) (*Claims, error)
}

// CredentialStore is the persistence boundary for accounts.
//
// Insert and UpdateEmail must enforce email uniqueness atomically and report
// violations with a Conflict error. Lookups report a missing account with a
// NotFound error.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*AccountView, error)
	Insert(ctx context.Context, account *Account) (*Account, error)
	UpdateEmail(ctx context.Context, id, email string) (*AccountView, error)
	Delete(ctx context.Context, id string) error
}
