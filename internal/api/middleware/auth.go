package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/linkboard/linkboard-api/internal/core/ports"
)

// Assertion transport, fixed per deployment. Never auto-detected.
const (
	SourceBearer = "bearer"
	SourceCookie = "cookie"
)

// SessionCookieName is the cookie carrying the session reference in cookie
// deployments.
const SessionCookieName = "linkboard_session"

// PrincipalKey is the echo context key the resolved principal is stored
// under. Handlers read it via the handler package's accessor; nothing
// downstream re-parses tokens or cookies.
const PrincipalKey = "principal"

// AssertionKey holds the raw assertion that produced the principal, so the
// logout handler can revoke it without re-extracting.
const AssertionKey = "assertion"

// Auth is the single identity-resolution chokepoint for protected routes. It
// extracts the assertion from the configured source, resolves it to a
// principal, and injects the principal into the request context.
//
// An absent assertion yields 401 "authentication required"; malformed,
// expired, and unknown assertions all yield 401 "invalid credentials" so the
// failure modes are indistinguishable to a caller.
func Auth(source string, resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			assertion, err := extractAssertion(c, source)
			if err != nil {
				return err
			}

			principal, err := resolver.Resolve(c.Request().Context(), assertion)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
			}

			c.Set(PrincipalKey, *principal)
			c.Set(AssertionKey, assertion)
			return next(c)
		}
	}
}

func extractAssertion(c echo.Context, source string) (string, error) {
	if source == SourceCookie {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		return cookie.Value, nil
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	return parts[1], nil
}
