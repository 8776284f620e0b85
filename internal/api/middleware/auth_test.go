package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ngcore/auth-api/internal/core/domain"
	"github.com/ngcore/auth-api/internal/core/token"
)

func tokenConfig() token.Config {
	return token.Config{
		Secret:   "test-secret",
		Issuer:   "auth-api",
		Audience: "auth-api-clients",
		TTL:      time.Hour,
	}
}

func issueToken(t *testing.T, role string) string {
	t.Helper()
	issuer, err := token.NewIssuer(tokenConfig())
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	issued, err := issuer.Issue("alice", "user-1", role)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return issued.Token
}

func TestAuthenticate_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, domain.RoleAdmin))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Authenticate(token.NewVerifier(tokenConfig()))
	handler := mw(func(c echo.Context) error {
		called = true
		if c.Get("username") != "alice" {
			t.Fatalf("username not set")
		}
		if c.Get("user_id") != "user-1" {
			t.Fatalf("user_id not set")
		}
		if c.Get("role") != domain.RoleAdmin {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthenticate_Denies(t *testing.T) {
	wrongSignature := func() string {
		cfg := tokenConfig()
		cfg.Secret = "other-secret"
		issuer, _ := token.NewIssuer(cfg)
		issued, _ := issuer.Issue("alice", "user-1", domain.RoleAdmin)
		return issued.Token
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"garbage token", "Bearer not-a-token"},
		{"wrong signature", "Bearer " + wrongSignature()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			mw := Authenticate(token.NewVerifier(tokenConfig()))
			handler := mw(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestRequireRole_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", domain.RoleAdmin)

	called := false
	handler := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	for _, role := range []string{domain.RoleCustomer, ""} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("role", role)

		handler := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		})

		if err := handler(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		if rec.Code != http.StatusForbidden {
			t.Fatalf("role %q: expected 403, got %d", role, rec.Code)
		}
	}
}

func TestGate_EndToEnd(t *testing.T) {
	// a Customer token passes the authenticated gate but not the Admin gate
	signed := issueToken(t, domain.RoleCustomer)
	verifier := token.NewVerifier(tokenConfig())

	e := echo.New()
	okHandler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/any", okHandler, Authenticate(verifier))
	e.GET("/admin", okHandler, Authenticate(verifier), RequireRole(domain.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated policy: expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("admin policy: expected 403, got %d", rec.Code)
	}

	// same token, same verdict on re-evaluation
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("verdict changed on second evaluation: got %d", rec.Code)
	}
}
