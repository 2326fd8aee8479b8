package bearer

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	auth "github.com/goliatone/go-auth-service"
)

// State is the position of a request in the gate pipeline
type State int

const (
	NoToken State = iota
	TokenPresent
	Verified
	Rejected
)

func (s State) String() string {
	switch s {
	case NoToken:
		return "no_token"
	case TokenPresent:
		return "token_present"
	case Verified:
		return "verified"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of evaluating a request. Claims is set when State
// is Verified, Err when State is Rejected.
type Verdict struct {
	State  State
	Claims *auth.Claims
	Err    error
}

// TokenVerifier checks a raw token and returns its claims
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Config for the bearer gate
type Config struct {
	// Filter skips the gate when it returns true
	Filter         func(*fiber.Ctx) bool
	SuccessHandler fiber.Handler
	ErrorHandler   fiber.ErrorHandler
	Verifier       TokenVerifier
	ContextKey     string
	AuthScheme     string
	Logger         auth.Logger
}

// Gate guards handlers behind a verified bearer token
type Gate struct {
	cfg Config
}

// New returns a Gate. It panics when no Verifier is configured.
func New(config ...Config) *Gate {
	return &Gate{cfg: defaultConfig(config...)}
}

// Evaluate runs the gate pipeline on an Authorization header value
func (g *Gate) Evaluate(header string) Verdict {
	raw, ok := tokenFromHeader(header, g.cfg.AuthScheme)
	if !ok {
		return Verdict{State: Rejected, Err: auth.ErrMissingToken}
	}

	verdict := Verdict{State: TokenPresent}

	claims, err := g.cfg.Verifier.Verify(raw)
	if err != nil {
		if !auth.IsKind(err, auth.KindInvalidToken) {
			g.cfg.Logger.Warn("token verifier returned unclassified error", "error", err)
			err = auth.ErrInvalidToken
		}
		verdict.State = Rejected
		verdict.Err = err
		return verdict
	}

	verdict.State = Verified
	verdict.Claims = claims
	return verdict
}

// Handler returns the fiber middleware. Verified claims are stored in the
// request locals under ContextKey and in the user context.
func (g *Gate) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if g.cfg.Filter != nil && g.cfg.Filter(c) {
			return c.Next()
		}

		verdict := g.Evaluate(c.Get(fiber.HeaderAuthorization))
		if verdict.State != Verified {
			g.cfg.Logger.Debug("request rejected", "path", c.Path(), "error", verdict.Err)
			return g.cfg.ErrorHandler(c, verdict.Err)
		}

		c.Locals(g.cfg.ContextKey, verdict.Claims)
		c.SetUserContext(auth.WithClaimsContext(c.UserContext(), verdict.Claims))

		return g.cfg.SuccessHandler(c)
	}
}

// OwnerOnly returns a handler that lets the request through only when the
// verified subject matches the route param. It must run after Handler.
func (g *Gate) OwnerOnly(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c, g.cfg.ContextKey)
		if !ok {
			return g.cfg.ErrorHandler(c, auth.ErrMissingToken)
		}

		if !strings.EqualFold(claims.AccountID(), strings.TrimSpace(c.Params(param))) {
			g.cfg.Logger.Warn("account access denied",
				"subject", claims.AccountID(),
				"target", c.Params(param),
			)
			return g.cfg.ErrorHandler(c, auth.ErrForbidden)
		}

		return c.Next()
	}
}

// ClaimsFrom returns the claims stored by the gate
func ClaimsFrom(c *fiber.Ctx, key string) (*auth.Claims, bool) {
	if key == "" {
		key = "user"
	}
	claims, ok := c.Locals(key).(*auth.Claims)
	return claims, ok && claims != nil
}

func defaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Verifier == nil {
		panic("AUTH: bearer middleware configuration: Verifier is required.")
	}

	if cfg.Logger == nil {
		cfg.Logger = auth.NewSlogLogger(nil)
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		logger := cfg.Logger
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return auth.WriteError(c, logger, err)
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if strings.TrimSpace(cfg.AuthScheme) == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

// tokenFromHeader extracts the token from "<scheme> <token>". The scheme is
// matched case-insensitively.
func tokenFromHeader(header, scheme string) (string, bool) {
	header = strings.TrimSpace(header)
	scheme = strings.TrimSpace(scheme)
	l := len(scheme)
	if len(header) <= l+1 || !strings.EqualFold(header[:l], scheme) || header[l] != ' ' {
		return "", false
	}
	token := strings.TrimSpace(header[l+1:])
	return token, token != ""
}
