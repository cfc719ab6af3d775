package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPanicRecovery(t *testing.T) {
	h := PanicRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/bookings", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Errorf("body = %q, want a JSON error", rec.Body.String())
	}
}

func TestStatusRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := &statusRecorder{ResponseWriter: rec, statusCode: http.StatusOK}

	wrapped.WriteHeader(http.StatusConflict)
	if wrapped.statusCode != http.StatusConflict {
		t.Errorf("recorded status = %d, want 409", wrapped.statusCode)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("underlying status = %d, want 409", rec.Code)
	}
}
