package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kaylacoelho/chalkboard-app/internal/dashboard"
	"github.com/Kaylacoelho/chalkboard-app/internal/poller"
)

type stubTicker struct {
	view  dashboard.View
	err   error
	calls int
}

func (s *stubTicker) Tick(ctx context.Context) (dashboard.View, error) {
	_ = ctx
	s.calls++
	return s.view, s.err
}

func refresh(h *AdminHandler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/refresh", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.Refresh(rr, req)
	return rr
}

func TestAdminRefreshRequiresAuth(t *testing.T) {
	ticker := &stubTicker{}
	h := NewAdminHandler(ticker, "secret", nil)
	if rr := refresh(h, ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if rr := refresh(h, "wrong"); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong token, got %d", rr.Code)
	}
	if ticker.calls != 0 {
		t.Fatalf("expected no tick without auth")
	}
}

func TestAdminRefreshWithoutTokenConfiguredRejects(t *testing.T) {
	h := NewAdminHandler(&stubTicker{}, "", nil)
	if rr := refresh(h, ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAdminRefreshRunsTick(t *testing.T) {
	ticker := &stubTicker{view: dashboard.View{TickID: "manual"}}
	h := NewAdminHandler(ticker, "secret", nil)
	rr := refresh(h, "secret")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ticker.calls != 1 {
		t.Fatalf("expected one tick, got %d", ticker.calls)
	}
}

func TestAdminRefreshMapsErrors(t *testing.T) {
	cases := map[error]int{
		poller.ErrTickInProgress:   http.StatusConflict,
		poller.ErrAllLeaguesFailed: http.StatusBadGateway,
		context.DeadlineExceeded:   http.StatusInternalServerError,
	}
	for err, want := range cases {
		h := NewAdminHandler(&stubTicker{err: err}, "secret", nil)
		if rr := refresh(h, "secret"); rr.Code != want {
			t.Fatalf("%v: expected %d, got %d", err, want, rr.Code)
		}
	}

	h := NewAdminHandler(nil, "secret", nil)
	if rr := refresh(h, "secret"); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without ticker, got %d", rr.Code)
	}
}
