package booking

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kataras/iris/v12"
)

func newTransitionTestApp(t *testing.T) http.Handler {
	t.Helper()

	// bad-action / bad-body 分支在触达 Service 之前就返回，handler 可不带依赖。
	app := iris.New()
	h := NewHandler(nil, nil)
	app.Post("/api/admin/bookings/{id}/{action}", h.TransitionBooking)

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func TestTransitionBookingRejectsUnknownAction(t *testing.T) {
	app := newTransitionTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/bookings/b1/approve", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown action: got %d, want 400", rec.Code)
	}
}

func TestTransitionBookingRejectsMalformedBody(t *testing.T) {
	app := newTransitionTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/bookings/b1/accept",
		strings.NewReader(`{"admin_notes": `))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: got %d, want 400", rec.Code)
	}
}
