package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kaylacoelho/chalkboard-app/internal/dashboard"
)

// Serve runs method+path against h and returns the recorder.
func Serve(h http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	return ServeRequest(h, httptest.NewRequest(method, path, body))
}

// ServeRequest runs a prepared request, e.g. one carrying an admin bearer token.
func ServeRequest(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// AssertStatus fails the test unless the response has the wanted code. The
// body is included because API errors carry a JSON message and request id.
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rr.Code, rr.Body.String())
	}
}

// DecodeJSON decodes the recorder body into dest, failing the test on error.
func DecodeJSON(t *testing.T, rr *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dest); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

// GetView fetches /dashboard from h, requiring 200.
func GetView(t *testing.T, h http.Handler) dashboard.View {
	t.Helper()
	rr := Serve(h, http.MethodGet, "/dashboard", nil)
	AssertStatus(t, rr, http.StatusOK)
	var view dashboard.View
	DecodeJSON(t, rr, &view)
	return view
}

// GetGame fetches /games/{id} from h, requiring 200.
func GetGame(t *testing.T, h http.Handler, id string) dashboard.GameSignals {
	t.Helper()
	rr := Serve(h, http.MethodGet, "/games/"+id, nil)
	AssertStatus(t, rr, http.StatusOK)
	var g dashboard.GameSignals
	DecodeJSON(t, rr, &g)
	return g
}
