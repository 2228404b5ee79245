package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Kaylacoelho/chalkboard-app/internal/http/requestutil"
	"github.com/Kaylacoelho/chalkboard-app/internal/logging"
	"github.com/Kaylacoelho/chalkboard-app/internal/metrics"
)

func newRouter(logger *slog.Logger, rec *metrics.Recorder, h http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(Logging(logger, rec))
	r.Get("/games/{id}", h)
	return r
}

func TestLoggingSetsRequestIDAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	var seenID string
	var scoped *slog.Logger

	h := newRouter(logger, nil, func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFromContext(r.Context())
		scoped = logging.FromContext(r.Context(), nil)
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/games/abc?x=1", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status passthrough, got %d", rr.Code)
	}
	header := rr.Header().Get(requestutil.HeaderRequestID)
	if header == "" || header != seenID {
		t.Fatalf("expected request id in header and context, got %q and %q", header, seenID)
	}
	if scoped == nil {
		t.Fatalf("expected request-scoped logger in context")
	}
	out := buf.String()
	if !strings.Contains(out, "request complete") || !strings.Contains(out, "status_code=418") {
		t.Fatalf("expected completion log, got %s", out)
	}
}

func TestLoggingKeepsValidIncomingRequestID(t *testing.T) {
	h := newRouter(nil, nil, func(w http.ResponseWriter, r *http.Request) {})
	req := httptest.NewRequest(http.MethodGet, "/games/1", nil)
	req.Header.Set(requestutil.HeaderRequestID, "client-id_1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get(requestutil.HeaderRequestID); got != "client-id_1" {
		t.Fatalf("expected incoming id preserved, got %q", got)
	}
}

func TestLoggingReplacesInvalidRequestID(t *testing.T) {
	h := newRouter(nil, nil, func(w http.ResponseWriter, r *http.Request) {})
	req := httptest.NewRequest(http.MethodGet, "/games/1", nil)
	req.Header.Set(requestutil.HeaderRequestID, "bad id with spaces")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get(requestutil.HeaderRequestID); got == "" || got == "bad id with spaces" {
		t.Fatalf("expected sanitized id, got %q", got)
	}
}

func TestLoggingRecordsRoutePatternMetrics(t *testing.T) {
	rec := metrics.NewRecorder()
	h := newRouter(nil, rec, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, id := range []string{"a", "b"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/games/"+id, nil))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if got := rec.HTTPRequests(http.MethodGet, "/games/{id}", http.StatusOK); got != 2 {
		t.Fatalf("expected 2 requests on the route pattern, got %d", got)
	}
	if got := rec.HTTPRequests(http.MethodGet, "unmatched", http.StatusNotFound); got != 1 {
		t.Fatalf("expected unmatched request recorded, got %d", got)
	}
}

func TestResponseWriterKeepsFirstStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr, status: http.StatusOK}
	_, _ = w.Write([]byte("body"))
	w.WriteHeader(http.StatusInternalServerError)
	if w.status != http.StatusOK {
		t.Fatalf("expected implicit 200 to stick, got %d", w.status)
	}
}

func TestRequestIDFromContext(t *testing.T) {
	if got := RequestIDFromContext(nil); got != "" { //nolint:staticcheck
		t.Fatalf("expected empty for nil ctx")
	}
	ctx := withRequestID(context.Background(), "abc")
	if got := RequestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}
