package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/pkg/metrics"
)

// RequireRole enforces role-based access control. It must run after Auth; a
// request that reaches it without an Identity is refused. Refusals return
// domain.ErrForbidden for the central error handler to render.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := zerolog.Ctx(c.Request().Context())

			identity, ok := IdentityFrom(c)
			if !ok {
				metrics.GateRejectionsTotal.WithLabelValues("role", "missing_identity").Inc()
				log.Error().Str("path", c.Path()).Msg("role gate reached without identity; check middleware order")
				return domain.ErrForbidden
			}

			if !hasAnyRole(identity, roles) {
				metrics.GateRejectionsTotal.WithLabelValues("role", "role_mismatch").Inc()
				log.Debug().Str("username", identity.Username).Str("role", string(identity.Role)).Msg("role rejected")
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

func hasAnyRole(identity domain.Identity, roles []domain.Role) bool {
	for _, r := range roles {
		if identity.HasRole(r) {
			return true
		}
	}
	return false
}
