// Package config loads the service configuration from defaults, an optional
// YAML file and AUTHSVC_ environment variables.
package config

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	auth "github.com/goliatone/go-auth-service"
	goerrors "github.com/goliatone/go-errors"
)

// Default configuration values.
const (
	DefaultAddress      = ":8000"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second

	// DefaultTokenTTL bounds issued tokens; set auth.token_ttl to 0 to issue
	// tokens without an exp claim.
	DefaultTokenTTL     = auth.DefaultTokenTTL
	DefaultPasswordCost = auth.DefaultPasswordCost
	DefaultContextKey   = "user"
	DefaultAuthScheme   = "Bearer"

	DefaultDriver  = auth.DriverSQLite
	DefaultDSN     = "file:authsvc.db?cache=shared"
	DefaultTimeout = auth.DefaultStoreTimeout
)

// Config is the root configuration
type Config struct {
	Server      ServerSection      `koanf:"server"`
	Auth        AuthSection        `koanf:"auth"`
	Persistence PersistenceSection `koanf:"persistence"`
}

// ServerSection configures the HTTP server.
type ServerSection struct {
	Address      string        `koanf:"address"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// AuthSection configures hashing and tokens.
type AuthSection struct {
	SigningKey   string        `koanf:"signing_key"`
	TokenTTL     time.Duration `koanf:"token_ttl"`
	Issuer       string        `koanf:"issuer"`
	PasswordCost int           `koanf:"password_cost"`
	ContextKey   string        `koanf:"context_key"`
	Scheme       string        `koanf:"scheme"`
}

// PersistenceSection configures the account store.
type PersistenceSection struct {
	Driver         string        `koanf:"driver"`
	DSN            string        `koanf:"dsn"`
	Timeout        time.Duration `koanf:"timeout"`
	MigrateOnStart bool          `koanf:"migrate_on_start"`
}

var _ auth.Config = AuthSection{}

// Default returns the default configuration. It has no signing key.
func Default() *Config {
	return &Config{
		Server: ServerSection{
			Address:      DefaultAddress,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
		},
		Auth: AuthSection{
			TokenTTL:     DefaultTokenTTL,
			PasswordCost: DefaultPasswordCost,
			ContextKey:   DefaultContextKey,
			Scheme:       DefaultAuthScheme,
		},
		Persistence: PersistenceSection{
			Driver:         DefaultDriver,
			DSN:            DefaultDSN,
			Timeout:        DefaultTimeout,
			MigrateOnStart: true,
		},
	}
}

func (a AuthSection) GetSigningKey() string      { return a.SigningKey }
func (a AuthSection) GetTokenTTL() time.Duration { return a.TokenTTL }
func (a AuthSection) GetIssuer() string          { return a.Issuer }
func (a AuthSection) GetPasswordCost() int       { return a.PasswordCost }
func (a AuthSection) GetContextKey() string      { return a.ContextKey }
func (a AuthSection) GetAuthScheme() string      { return a.Scheme }

// Validate checks the configuration. A missing signing key is an error.
func (c *Config) Validate() error {
	err := validation.Errors{
		"server.address": validation.Validate(c.Server.Address, validation.Required),
		"auth.signing_key": validation.Validate(strings.TrimSpace(c.Auth.SigningKey),
			validation.Required.Error("signing key is required"),
		),
		"auth.token_ttl": validation.Validate(int64(c.Auth.TokenTTL), validation.Min(int64(0))),
		"persistence.driver": validation.Validate(strings.ToLower(c.Persistence.Driver),
			validation.Required,
			validation.In(auth.DriverSQLite, auth.DriverPostgres, "pgx", "postgresql"),
		),
		"persistence.dsn": validation.Validate(c.Persistence.DSN, validation.Required),
	}.Filter()
	if err == nil {
		return nil
	}

	return goerrors.FromOzzoValidation(err, "invalid configuration")
}

var dsnPasswordPattern = regexp.MustCompile(`(?i)(password=)(\S+)`)

// Redacted returns a copy safe to print. Secrets are masked.
func (c Config) Redacted() Config {
	out := c
	if out.Auth.SigningKey != "" {
		out.Auth.SigningKey = maskSecret(out.Auth.SigningKey)
	}
	out.Persistence.DSN = redactDSN(out.Persistence.DSN)
	return out
}

func redactDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			name := url.User(u.User.Username()).String()
			u.User = url.User(u.User.Username())
			return strings.Replace(u.String(), "//"+name+"@", "//"+name+":****@", 1)
		}
	}
	return dsnPasswordPattern.ReplaceAllString(dsn, "${1}****")
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
