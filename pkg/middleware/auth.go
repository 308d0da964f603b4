package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

type operatorKey struct{}

// OperatorFrom extracts the authenticated operator identity from the request
// context. Returns an empty string when no operator was resolved.
func OperatorFrom(ctx context.Context) string {
	if op, ok := ctx.Value(operatorKey{}).(string); ok {
		return op
	}
	return ""
}

// WithOperator returns a context carrying the given operator identity.
// Exposed for handler tests.
func WithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, operatorKey{}, operator)
}

// AuthConfig holds OIDC operator authentication settings.
type AuthConfig struct {
	Enabled        bool   `toml:"enabled"`
	Issuer         string `toml:"issuer"`
	Audience       string `toml:"audience"`
	OperatorClaim  string `toml:"operator_claim"`
	OperatorHeader string `toml:"operator_header"`
}

// AuthEnv maps auth config fields to environment variable names for override injection.
type AuthEnv struct {
	Enabled        string
	Issuer         string
	Audience       string
	OperatorClaim  string
	OperatorHeader string
}

// Finalize applies defaults and environment variable overrides.
func (c *AuthConfig) Finalize(env *AuthEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge overwrites fields from overlay. Enabled always applies; string fields
// only apply when non-empty.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	c.Enabled = overlay.Enabled

	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.Audience != "" {
		c.Audience = overlay.Audience
	}
	if overlay.OperatorClaim != "" {
		c.OperatorClaim = overlay.OperatorClaim
	}
	if overlay.OperatorHeader != "" {
		c.OperatorHeader = overlay.OperatorHeader
	}
}

func (c *AuthConfig) loadDefaults() {
	if c.OperatorClaim == "" {
		c.OperatorClaim = "preferred_username"
	}
	if c.OperatorHeader == "" {
		c.OperatorHeader = "X-Operator"
	}
}

func (c *AuthConfig) loadEnv(env *AuthEnv) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.Enabled = enabled
			}
		}
	}
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.Audience != "" {
		if v := os.Getenv(env.Audience); v != "" {
			c.Audience = v
		}
	}
	if env.OperatorClaim != "" {
		if v := os.Getenv(env.OperatorClaim); v != "" {
			c.OperatorClaim = v
		}
	}
	if env.OperatorHeader != "" {
		if v := os.Getenv(env.OperatorHeader); v != "" {
			c.OperatorHeader = v
		}
	}
}

// Auth returns middleware that resolves the operator identity for each request.
// When enabled, bearer tokens are verified against the configured OIDC issuer
// and the operator is taken from the configured claim; requests without a
// valid token are rejected. When disabled, the operator is taken from the
// configured header, suitable for local development behind a trusted proxy.
func Auth(ctx context.Context, cfg *AuthConfig, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	if !cfg.Enabled {
		return headerAuth(cfg.OperatorHeader), nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.Audience})
	log := logger.With("middleware", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			token, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				log.Warn("token verification failed", "error", err)
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			var claims map[string]json.RawMessage
			if err := token.Claims(&claims); err != nil {
				log.Warn("claims decode failed", "error", err)
				http.Error(w, "invalid token claims", http.StatusUnauthorized)
				return
			}

			var operator string
			if raw, ok := claims[cfg.OperatorClaim]; ok {
				_ = json.Unmarshal(raw, &operator)
			}
			if operator == "" {
				operator = token.Subject
			}

			next.ServeHTTP(w, r.WithContext(WithOperator(r.Context(), operator)))
		})
	}, nil
}

func headerAuth(header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if operator := r.Header.Get(header); operator != "" {
				r = r.WithContext(WithOperator(r.Context(), operator))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}
