package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ngcore/auth-api/internal/core/domain"
	"github.com/ngcore/auth-api/internal/core/ports"
)

type stubAccountService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.LoginResult, error)
}

func (s *stubAccountService) Register(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAccountService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func newContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAccountHandler_Register_Success(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
			if input.Username != "bob" || input.Email != "b@x.com" || input.Password != "P@ssw0rd1" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.RegisterResult{Username: "bob", Email: "b@x.com", Role: domain.RoleCustomer}, nil
		},
	}
	h := NewAccountHandler(stub)

	c, rec := newContext(t, http.MethodPost, "/api/account/register",
		`{"username":"bob","email":"b@x.com","password":"P@ssw0rd1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "bob" || resp["email"] != "b@x.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["status"] != float64(1) {
		t.Fatalf("expected status 1, got %v", resp["status"])
	}
	if resp["message"] == "" {
		t.Fatalf("expected a confirmation message")
	}
}

func TestAccountHandler_Register_StoreRejection(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.RegisterResult, error) {
			return nil, domain.ValidationErrors{
				"Username 'bob' is already taken.",
				"Email 'b@x.com' is already taken.",
			}
		},
	}
	h := NewAccountHandler(stub)

	c, rec := newContext(t, http.MethodPost, "/api/account/register",
		`{"username":"bob","email":"b@x.com","password":"P@ssw0rd1"}`)
	_ = h.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Errors) != 2 || !strings.Contains(resp.Errors[0], "Username") {
		t.Fatalf("expected ordered error list, got %v", resp.Errors)
	}
}

func TestAccountHandler_Register_InvalidBody(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.RegisterResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAccountHandler(stub)

	// malformed JSON
	c, rec := newContext(t, http.MethodPost, "/api/account/register", "not-json")
	_ = h.Register(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}

	// missing fields fail request validation
	c, rec = newContext(t, http.MethodPost, "/api/account/register", `{"username":"bob"}`)
	_ = h.Register(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", rec.Code)
	}
	var resp struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Errors) == 0 {
		t.Fatalf("expected validation errors")
	}
}

func TestAccountHandler_Login_Success(t *testing.T) {
	expires := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubAccountService{
		loginFn: func(_ context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "bob" || password != "P@ssw0rd1" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &ports.LoginResult{
				Token:     "token123",
				ExpiresAt: expires,
				Username:  "bob",
				Role:      domain.RoleCustomer,
			}, nil
		},
	}
	h := NewAccountHandler(stub)

	c, rec := newContext(t, http.MethodPost, "/api/account/login",
		`{"username":"bob","password":"P@ssw0rd1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["username"] != "bob" || resp["userRole"] != domain.RoleCustomer {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["expiration"] != "2026-03-01T12:00:00Z" {
		t.Fatalf("expected ISO-8601 UTC expiration, got %v", resp["expiration"])
	}
}

func TestAccountHandler_Login_CredentialMismatch(t *testing.T) {
	stub := &stubAccountService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAccountHandler(stub)

	c, rec := newContext(t, http.MethodPost, "/api/account/login",
		`{"username":"bob","password":"wrong"}`)
	_ = h.Login(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["loginError"] == "" {
		t.Fatalf("expected loginError message")
	}
}

func TestAccountHandler_Login_SystemFailure(t *testing.T) {
	stub := &stubAccountService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, errors.New("store unreachable")
		},
	}
	h := NewAccountHandler(stub)

	c, rec := newContext(t, http.MethodPost, "/api/account/login",
		`{"username":"bob","password":"P@ssw0rd1"}`)
	_ = h.Login(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["errorMessage"] != msgLoginFailed {
		t.Fatalf("expected generic login failure message, got %q", resp["errorMessage"])
	}
	if strings.Contains(rec.Body.String(), "unreachable") {
		t.Fatalf("internal error detail leaked to the client")
	}
}

func TestAccountHandler_Login_Throttled(t *testing.T) {
	stub := &stubAccountService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrTooManyAttempts
		},
	}
	h := NewAccountHandler(stub)

	c, rec := newContext(t, http.MethodPost, "/api/account/login",
		`{"username":"bob","password":"P@ssw0rd1"}`)
	_ = h.Login(c)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}
