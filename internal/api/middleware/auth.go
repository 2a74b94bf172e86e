package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
	"github.com/99minutos/catalog-api/internal/pkg/metrics"
)

const identityKey = "identity"

type identityCtxKey struct{}

// AuthConfig tunes the Auth gate.
type AuthConfig struct {
	// UnifyFailures answers invalid tokens with 401 instead of 403.
	UnifyFailures bool
}

// Auth requires a valid token in the Authorization header. The raw header
// value is the token; no scheme prefix is parsed. On success the Identity is
// available through IdentityFrom and IdentityFromContext.
func Auth(verifier ports.TokenVerifier, cfg AuthConfig) echo.MiddlewareFunc {
	invalidStatus := http.StatusForbidden
	if cfg.UnifyFailures {
		invalidStatus = http.StatusUnauthorized
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := zerolog.Ctx(c.Request().Context())

			token := c.Request().Header.Get(echo.HeaderAuthorization)
			if token == "" {
				metrics.GateRejectionsTotal.WithLabelValues("auth", "missing_token").Inc()
				log.Debug().Str("path", c.Path()).Msg("request without token")
				return echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				metrics.GateRejectionsTotal.WithLabelValues("auth", "invalid_token").Inc()
				log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
				return echo.NewHTTPError(invalidStatus, "Invalid token")
			}

			c.Set(identityKey, identity)
			c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), identity)))

			return next(c)
		}
	}
}

// IdentityFrom returns the Identity attached by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(domain.Identity)
	return identity, ok
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFromContext returns the Identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(domain.Identity)
	return identity, ok
}
