package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Kaylacoelho/chalkboard-app/internal/http/requestutil"
	"github.com/Kaylacoelho/chalkboard-app/internal/logging"
	"github.com/Kaylacoelho/chalkboard-app/internal/metrics"
)

// Logging wraps the handler with request logging, request ID support, and metrics.
func Logging(baseLogger *slog.Logger, recorder *metrics.Recorder) func(http.Handler) http.Handler {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := requestutil.SanitizeRequestID(r.Header.Get(requestutil.HeaderRequestID))
			w.Header().Set(requestutil.HeaderRequestID, reqID)

			logger := baseLogger.With(
				slog.String(logging.FieldRequestID, reqID),
				slog.String(logging.FieldMethod, r.Method),
				slog.String(logging.FieldPath, r.URL.Path),
				slog.String("query", r.URL.RawQuery),
				slog.String("client_ip", requestutil.ClientIP(r)),
			)

			ctx := logging.WithLogger(r.Context(), logger)
			ctx = withRequestID(ctx, reqID)
			r = r.WithContext(ctx)
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			recorder.RecordHTTPRequest(r.Method, routePattern(r), ww.status, duration)

			logger.Info("request complete",
				slog.Int(logging.FieldStatusCode, ww.status),
				slog.Int64(logging.FieldDurationMS, duration.Milliseconds()),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

type requestIDKey struct{}

// RequestIDFromContext extracts the request ID stored by the logging middleware.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(requestIDKey{}).(string); ok {
		return val
	}
	return ""
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// routePattern labels metrics by the matched chi route so ids do not explode
// cardinality. Unmatched paths share one label.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
