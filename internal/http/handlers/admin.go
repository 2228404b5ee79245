package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Kaylacoelho/chalkboard-app/internal/dashboard"
	"github.com/Kaylacoelho/chalkboard-app/internal/http/requestutil"
	"github.com/Kaylacoelho/chalkboard-app/internal/logging"
	"github.com/Kaylacoelho/chalkboard-app/internal/poller"
)

// Ticker runs one poll cycle on demand.
type Ticker interface {
	Tick(ctx context.Context) (dashboard.View, error)
}

// AdminHandler exposes admin-only endpoints.
type AdminHandler struct {
	ticker Ticker
	token  string
	logger *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty token rejects every call.
func NewAdminHandler(ticker Ticker, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		ticker: ticker,
		token:  token,
		logger: logger,
	}
}

// Refresh runs a poll cycle immediately and reports the published view.
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.ticker == nil {
		writeError(w, r, http.StatusServiceUnavailable, "poller not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	view, err := h.ticker.Tick(r.Context())
	switch {
	case errors.Is(err, poller.ErrTickInProgress):
		writeError(w, r, http.StatusConflict, "refresh already in progress", logger)
		return
	case errors.Is(err, poller.ErrAllLeaguesFailed):
		logging.Warn(logger, "admin refresh failed", slog.Int(logging.FieldFailed, len(view.LeagueErrors)))
		writeError(w, r, http.StatusBadGateway, "all league feeds failed", logger)
		return
	case err != nil:
		logging.Error(logger, "admin refresh failed", err)
		writeError(w, r, http.StatusInternalServerError, "refresh failed", logger)
		return
	}

	logging.Info(logger, "admin refresh complete",
		slog.String(logging.FieldTickID, view.TickID),
		slog.Int(logging.FieldCount, len(view.AllGames())),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"tickId":       view.TickID,
		"games":        len(view.AllGames()),
		"live":         view.LiveCount(),
		"leagueErrors": view.LeagueErrors,
	}, logger)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := requestutil.BearerToken(r)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}
