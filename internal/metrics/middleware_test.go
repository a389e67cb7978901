package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMiddleware_RecordsStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/search", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status to pass through, got %d", rec.Code)
	}
}

func TestStatusWriter_DefaultsTo200(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := &statusWriter{ResponseWriter: rec, status: http.StatusOK}

	if _, err := ww.Write([]byte("ok")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if ww.status != http.StatusOK {
		t.Errorf("expected 200, got %d", ww.status)
	}
}

func TestNormalizePath(t *testing.T) {
	if got := normalizePath(""); got != "unknown" {
		t.Errorf("expected unknown for empty pattern, got %q", got)
	}
	if got := normalizePath("/search"); got != "/search" {
		t.Errorf("expected pattern unchanged, got %q", got)
	}
}
