package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SwiftFleet/SwiftFleet/internal/common/auth"
	"github.com/SwiftFleet/SwiftFleet/internal/common/config"
	"github.com/kataras/iris/v12"
)

func newAuthTestApp(t *testing.T, cfg config.AuthConfig) http.Handler {
	t.Helper()

	app := iris.New()
	api := app.Party("/api", JWTAuth(cfg, nil))
	api.Get("/me", func(ctx iris.Context) {
		ai, ok := AuthFromContext(ctx)
		if !ok {
			ctx.StopWithStatus(iris.StatusInternalServerError)
			return
		}
		_ = ctx.JSON(iris.Map{"subject": ai.Subject})
	})
	admin := api.Party("/admin", StaffOnly(cfg))
	admin.Get("/ping", func(ctx iris.Context) {
		_ = ctx.JSON(iris.Map{"pong": true})
	})

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func TestJWTAuthAndStaffOnly(t *testing.T) {
	cfg := config.AuthConfig{
		Enabled:    true,
		JWTSecret:  "test-secret",
		Issuer:     "swiftfleet",
		Audience:   "swiftfleet",
		StaffRoles: []string{"staff", "admin"},
	}
	handler := newAuthTestApp(t, cfg)

	staffToken, _, err := auth.GenerateAccessToken(cfg, "staff-1", []string{"staff"}, time.Hour)
	if err != nil {
		t.Fatalf("sign staff token: %v", err)
	}
	customerToken, _, err := auth.GenerateAccessToken(cfg, "cust-1", []string{"customer"}, time.Hour)
	if err != nil {
		t.Fatalf("sign customer token: %v", err)
	}

	cases := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"missing token", "/api/me", "", http.StatusUnauthorized},
		{"valid token", "/api/me", customerToken, http.StatusOK},
		{"customer on admin route", "/api/admin/ping", customerToken, http.StatusForbidden},
		{"staff on admin route", "/api/admin/ping", staffToken, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d (body=%s)", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestIsPublicPath(t *testing.T) {
	public := []string{"/healthz", "/api/cars"}

	if !isPublicPath(public, "/healthz") {
		t.Fatalf("exact match should be public")
	}
	if !isPublicPath(public, "/api/cars/abc/calendar") {
		t.Fatalf("prefix match should be public")
	}
	if isPublicPath(public, "/api/bookings") {
		t.Fatalf("unlisted path should not be public")
	}
}
