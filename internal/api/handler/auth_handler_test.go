package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/linkboard/linkboard-api/internal/api/middleware"
	"github.com/linkboard/linkboard-api/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password string) (*domain.User, string, error)
	loginFn    func(ctx context.Context, username, password string) (string, *domain.User, error)
	logoutFn   func(ctx context.Context, assertion string) error
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*domain.User, string, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, assertion string) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, assertion)
	}
	return nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, string, error) {
			if username != "alice" || password != "password123" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &domain.User{ID: "u1", Username: username, Role: domain.RoleUser}, "", nil
		},
	}
	handler := NewAuthHandler(stub, false, time.Hour)

	body := strings.NewReader(`{"username":"alice","password":"password123"}`)
	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "u1" || resp["username"] != "alice" || resp["role"] != "user" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["password_hash"]; ok {
		t.Fatalf("password hash must never appear in responses")
	}
}

func TestAuthHandler_Register_CookieModeSetsSession(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, string, error) {
			return &domain.User{ID: "u1", Username: username, Role: domain.RoleUser}, "ref-1", nil
		},
	}
	handler := NewAuthHandler(stub, true, time.Hour)

	body := strings.NewReader(`{"username":"alice","password":"password123"}`)
	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	cookie := findCookie(rec, middleware.SessionCookieName)
	if cookie == nil || cookie.Value != "ref-1" {
		t.Fatalf("expected session cookie, got %v", cookie)
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, string, error) {
			return nil, "", domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub, false, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"bob","password":"pass1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Register(c)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, string, error) {
			t.Fatalf("should not be called")
			return nil, "", nil
		},
	}
	handler := NewAuthHandler(stub, false, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"bob"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Register(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_BearerReturnsToken(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			return "token123", &domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub, false, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"password123"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice" || user["role"] != "user" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
}

func TestAuthHandler_Login_CookieModeOmitsToken(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			return "ref-2", &domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub, true, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"password123"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := resp["token"]; ok {
		t.Fatalf("session reference must travel in the cookie, not the body")
	}
	cookie := findCookie(rec, middleware.SessionCookieName)
	if cookie == nil || cookie.Value != "ref-2" {
		t.Fatalf("expected session cookie, got %v", cookie)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, false, time.Hour)

	// Wrong password and unknown user produce byte-identical responses.
	var bodies []string
	for _, payload := range []string{
		`{"username":"alice","password":"wrong"}`,
		`{"username":"ghost","password":"whatever"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = handler.Login(c)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("login failure payloads must be indistinguishable: %q vs %q", bodies[0], bodies[1])
	}
}

func TestAuthHandler_Login_RateLimited(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrRateLimited
		},
	}
	handler := NewAuthHandler(stub, false, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"password123"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Login(c)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout_CookieModeRevokesAndClears(t *testing.T) {
	e := newTestEcho()
	var revoked string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, assertion string) error {
			revoked = assertion
			return nil
		},
	}
	handler := NewAuthHandler(stub, true, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.AssertionKey, "ref-3")
	c.Set(middleware.PrincipalKey, domain.Principal{ID: "u1", Username: "alice", Role: domain.RoleUser})

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if revoked != "ref-3" {
		t.Fatalf("expected session revoked, got %q", revoked)
	}
	cookie := findCookie(rec, middleware.SessionCookieName)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Fatalf("expected cookie cleared, got %v", cookie)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{}, false, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.PrincipalKey, domain.Principal{ID: "u1", Username: "alice", Role: domain.RoleAdmin})

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "u1" || resp["username"] != "alice" || resp["role"] != "admin" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{}, false, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Me(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
