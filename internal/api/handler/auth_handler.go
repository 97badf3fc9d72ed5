package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/linkboard/linkboard-api/internal/api/metrics"
	"github.com/linkboard/linkboard-api/internal/api/middleware"
	"github.com/linkboard/linkboard-api/internal/core/domain"
	"github.com/linkboard/linkboard-api/internal/core/ports"
)

// AuthHandler exposes registration, login, logout, and the current-principal
// endpoint. In cookie deployments the assertion travels in an http-only
// cookie; in bearer deployments it is returned in the response body.
type AuthHandler struct {
	authService ports.AuthService
	useCookie   bool
	cookieTTL   time.Duration
}

func NewAuthHandler(authService ports.AuthService, useCookie bool, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, useCookie: useCookie, cookieTTL: cookieTTL}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token string       `json:"token,omitempty"`
	User  userResponse `json:"user"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Desired username and password"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, assertion, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "internal server error"
		switch {
		case errors.Is(err, domain.ErrUserExists):
			status, msg = http.StatusConflict, err.Error()
		case errors.Is(err, domain.ErrWeakCredentials):
			status, msg = http.StatusBadRequest, err.Error()
		}
		return c.JSON(status, map[string]string{"error": msg})
	}

	metrics.RegistrationsTotal.Inc()

	if h.useCookie && assertion != "" {
		c.SetCookie(h.sessionCookie(assertion, h.cookieTTL))
	}
	return c.JSON(http.StatusCreated, userResponse{ID: user.ID, Username: user.Username, Role: user.Role})
}

// Login verifies credentials and establishes an authenticated context.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	assertion, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			metrics.RateLimitedTotal.Inc()
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many login attempts"})
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()

	resp := loginResponse{User: userResponse{ID: user.ID, Username: user.Username, Role: user.Role}}
	if h.useCookie {
		c.SetCookie(h.sessionCookie(assertion, h.cookieTTL))
	} else {
		resp.Token = assertion
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout ends the authenticated context. Session deployments revoke the
// server-side state and clear the cookie; bearer deployments only confirm,
// since a signed token cannot be revoked before expiry.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), ctxAssertion(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
	if h.useCookie {
		c.SetCookie(h.sessionCookie("", -time.Second))
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the caller's principal.
//
// @Summary      Current principal
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Router       /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{ID: principal.ID, Username: principal.Username, Role: principal.Role})
}

func (h *AuthHandler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
