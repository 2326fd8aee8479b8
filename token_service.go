package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/oklog/ulid/v2"
)

// DefaultTokenTTL is the token lifetime used by NewTokenServiceFromConfig
// when the configuration leaves it unset.
const DefaultTokenTTL = 24 * time.Hour

// TokenService implements TokenCodec with HS256 signed JWTs
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	logger     Logger
	now        func() time.Time
}

var _ TokenCodec = (*TokenService)(nil)

// TokenOption configures a TokenService
type TokenOption func(*TokenService)

// WithTokenTTL sets the token lifetime. Zero issues tokens without exp.
func WithTokenTTL(ttl time.Duration) TokenOption {
	return func(ts *TokenService) {
		if ttl >= 0 {
			ts.ttl = ttl
		}
	}
}

// WithTokenIssuer sets the iss claim and requires it on verification
func WithTokenIssuer(issuer string) TokenOption {
	return func(ts *TokenService) {
		ts.issuer = strings.TrimSpace(issuer)
	}
}

// WithTokenLogger sets the logger
func WithTokenLogger(logger Logger) TokenOption {
	return func(ts *TokenService) {
		ts.logger = normalizeLogger(logger)
	}
}

// WithTokenClock overrides the time source
func WithTokenClock(now func() time.Time) TokenOption {
	return func(ts *TokenService) {
		if now != nil {
			ts.now = now
		}
	}
}

// NewTokenService creates a new TokenService instance. An empty signing key
// is a configuration error and returns ErrMissingSigningKey.
func NewTokenService(signingKey []byte, opts ...TokenOption) (*TokenService, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	key := make([]byte, len(signingKey))
	copy(key, signingKey)

	ts := &TokenService{
		signingKey: key,
		logger:     defLogger{},
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts, nil
}

// NewTokenServiceFromConfig builds a TokenService from Config values
func NewTokenServiceFromConfig(cfg Config, logger Logger) (*TokenService, error) {
	ttl := cfg.GetTokenTTL()
	if ttl < 0 {
		ttl = DefaultTokenTTL
	}

	return NewTokenService(
		[]byte(cfg.GetSigningKey()),
		WithTokenTTL(ttl),
		WithTokenIssuer(cfg.GetIssuer()),
		WithTokenLogger(logger),
	)
}

// Issue signs claims. Missing iat and jti are filled in, exp is set when a
// TTL is configured and the claims do not carry one.
func (ts *TokenService) Issue(claims Claims) (string, error) {
	if strings.TrimSpace(claims.Subject) == "" {
		return "", goerrors.New("token subject is required", goerrors.CategoryInternal).
			WithTextCode(TextCodeInternal)
	}

	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(ts.now())
	}

	if claims.ID == "" {
		claims.ID = ulid.Make().String()
	}

	if claims.Issuer == "" && ts.issuer != "" {
		claims.Issuer = ts.issuer
	}

	if claims.ExpiresAt == nil && ts.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(claims.IssuedAt.Time.Add(ts.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", internalError(err, "failed to sign token")
	}

	return signed, nil
}

// Verify parses and validates a token string, returning its claims
func (ts *TokenService) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		ts.logger.Debug("token rejected", "error", err)
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		ts.logger.Debug("token rejected", "reason", "missing subject")
		return nil, ErrInvalidToken
	}

	return claims, nil
}
