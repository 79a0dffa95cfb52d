package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/postboard/blog-api/internal/api/metrics"
	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
)

// UserIDKey is the echo.Context key holding the authenticated user id (int64).
const UserIDKey = "user_id"

// Auth is the bearer gate: it resolves the Authorization header to a user id
// and stores it under UserIDKey. Every failure yields the same 401 so callers
// cannot tell a missing token from an expired or forged one.
func Auth(tokens ports.TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, reason := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if reason != "" {
				return reject(c, reason, errors.New(reason))
			}

			userID, err := tokens.Validate(raw)
			if err != nil {
				return reject(c, "invalid_token", err)
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "missing_header"
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", "malformed_header"
	}
	return strings.TrimSpace(parts[1]), ""
}

func reject(c echo.Context, reason string, cause error) error {
	metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error()).SetInternal(cause)
}
