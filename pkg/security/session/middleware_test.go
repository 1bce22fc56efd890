package session_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/craftfolio/server/pkg/identity"
	"github.com/craftfolio/server/pkg/repository/mock"
	"github.com/craftfolio/server/pkg/security/session"
)

func newApp(verifier identity.Verifier) *fiber.App {
	app := fiber.New()
	app.Get("/protected", session.NewAuthMiddleware(verifier), func(c *fiber.Ctx) error {
		ac, ok := session.FromCtx(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(ac.ExternalID)
	})
	return app
}

func expiredJWT(t *testing.T) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	verifier := &mock.Verifier{Accounts: map[string]identity.Account{
		"good-token": {ID: "u-123", Email: "jane@example.com"},
	}}
	app := newApp(verifier)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "bearer token", header: "Bearer good-token", wantStatus: http.StatusOK, wantBody: "u-123"},
		{name: "bare token", header: "good-token", wantStatus: http.StatusOK, wantBody: "u-123"},
		{name: "rejected by provider", header: "Bearer forged", wantStatus: http.StatusUnauthorized},
		{name: "whitespace only", header: "   ", wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				if !strings.Contains(string(body), tt.wantBody) {
					t.Errorf("body = %q, want %q", body, tt.wantBody)
				}
			}
		})
	}
}

func TestAuthMiddlewareExpiredJWTSkipsProvider(t *testing.T) {
	verifier := &mock.Verifier{Accounts: map[string]identity.Account{}}
	app := newApp(verifier)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+expiredJWT(t))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if verifier.Calls != 0 {
		t.Errorf("provider called %d times for an expired token", verifier.Calls)
	}
}
