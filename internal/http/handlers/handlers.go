package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Kaylacoelho/chalkboard-app/internal/dashboard"
	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
	"github.com/Kaylacoelho/chalkboard-app/internal/poller"
	"github.com/Kaylacoelho/chalkboard-app/internal/rankers"
)

// ViewSource supplies the latest published dashboard view.
type ViewSource interface {
	View() dashboard.View
	Registry() *leagues.Registry
}

// Handler serves read-only dashboard endpoints.
type Handler struct {
	views    ViewSource
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler. statusFn may be nil when no poller runs.
func NewHandler(views ViewSource, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		views:    views,
		logger:   logger,
		statusFn: statusFn,
	}
}

type gamesResponse struct {
	GeneratedAt time.Time               `json:"generatedAt"`
	Unavailable bool                    `json:"unavailable"`
	League      games.League            `json:"league,omitempty"`
	Games       []dashboard.GameSignals `json:"games"`
}

type historyResponse struct {
	GameID     string                `json:"gameId"`
	Momentum   string                `json:"momentum,omitempty"`
	ScoreDelta map[string]int        `json:"scoreDelta,omitempty"`
	History    []games.ScoreSnapshot `json:"history"`
}

type betResponse struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	Pick        *rankers.BetPick `json:"pick"`
}

type liveResponse struct {
	GeneratedAt time.Time         `json:"generatedAt"`
	Pick        *rankers.LivePick `json:"pick"`
}

type leagueSummary struct {
	leagues.Config
	Games int    `json:"games"`
	Live  int    `json:"live"`
	Error string `json:"error,omitempty"`
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ready", "poller": status}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

// Dashboard returns the full current view.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.views.View(), h.logger)
}

// Games lists games, optionally filtered by ?league= and ?status=.
func (h *Handler) Games(w http.ResponseWriter, r *http.Request) {
	view := h.views.View()
	logger := loggerFromContext(r, h.logger)

	filter, ok := parseStatusFilter(r.URL.Query().Get("status"))
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid status (expected scheduled, live or final)", logger)
		return
	}

	resp := gamesResponse{GeneratedAt: view.GeneratedAt, Unavailable: view.Unavailable}
	var list []dashboard.GameSignals
	if raw := strings.TrimSpace(r.URL.Query().Get("league")); raw != "" {
		key := games.League(strings.ToLower(raw))
		lv, found := view.League(key)
		if !found {
			writeError(w, r, http.StatusNotFound, "league not found", logger)
			return
		}
		resp.League = key
		list = lv.Games
	} else {
		list = view.AllGames()
	}

	resp.Games = make([]dashboard.GameSignals, 0, len(list))
	for _, g := range list {
		if filter(g.Game.Status) {
			resp.Games = append(resp.Games, g)
		}
	}
	writeJSON(w, http.StatusOK, resp, logger)
}

// GameByID returns one game's signals.
func (h *Handler) GameByID(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookupGame(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g, h.logger)
}

// GameHistory returns the recorded score history for one game.
func (h *Handler) GameHistory(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookupGame(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{
		GameID:     g.Game.ID,
		Momentum:   g.Momentum,
		ScoreDelta: g.ScoreDelta,
		History:    g.History,
	}, h.logger)
}

// BestBet returns the current best-bet pick, or a null pick when none qualifies.
func (h *Handler) BestBet(w http.ResponseWriter, r *http.Request) {
	view := h.views.View()
	writeJSON(w, http.StatusOK, betResponse{GeneratedAt: view.GeneratedAt, Pick: view.BestBet}, h.logger)
}

// BestLive returns the most exciting live game, or a null pick.
func (h *Handler) BestLive(w http.ResponseWriter, r *http.Request) {
	view := h.views.View()
	writeJSON(w, http.StatusOK, liveResponse{GeneratedAt: view.GeneratedAt, Pick: view.BestLive}, h.logger)
}

// Leagues lists configured leagues with per-league counts from the current view.
func (h *Handler) Leagues(w http.ResponseWriter, r *http.Request) {
	view := h.views.View()
	cfgs := h.views.Registry().All()
	out := make([]leagueSummary, 0, len(cfgs))
	for _, cfg := range cfgs {
		s := leagueSummary{Config: cfg}
		if lv, ok := view.League(cfg.Key); ok {
			s.Games = len(lv.Games)
			s.Error = lv.Error
			for _, g := range lv.Games {
				if g.Game.Status.IsLive() {
					s.Live++
				}
			}
		}
		out = append(out, s)
	}
	writeJSON(w, http.StatusOK, map[string]any{"leagues": out}, h.logger)
}

func (h *Handler) lookupGame(w http.ResponseWriter, r *http.Request) (dashboard.GameSignals, bool) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil || strings.TrimSpace(id) == "" || strings.ContainsAny(id, " \t/") {
		writeError(w, r, http.StatusBadRequest, "invalid game id", h.logger)
		return dashboard.GameSignals{}, false
	}
	g, ok := h.views.View().Game(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "game not found", h.logger)
		return dashboard.GameSignals{}, false
	}
	return g, true
}

func parseStatusFilter(raw string) (func(games.Status) bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return func(games.Status) bool { return true }, true
	case "scheduled":
		return func(s games.Status) bool { return s == games.StatusScheduled }, true
	case "live", "in_progress":
		return games.Status.IsLive, true
	case "final":
		return games.Status.IsFinal, true
	}
	return nil, false
}
