package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linkboard/linkboard-api/internal/api/middleware"
	"github.com/linkboard/linkboard-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware. A
// missing or empty principal means the middleware did not run on this route,
// which is a wiring error surfaced as 401 rather than a panic.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := c.Get(middleware.PrincipalKey).(domain.Principal)
	if !ok || p.ID == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}

// ctxAssertion returns the raw assertion the Auth middleware validated, or
// an empty string on unauthenticated routes.
func ctxAssertion(c echo.Context) string {
	a, _ := c.Get(middleware.AssertionKey).(string)
	return a
}
