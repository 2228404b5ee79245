package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Kaylacoelho/chalkboard-app/internal/config"
	"github.com/Kaylacoelho/chalkboard-app/internal/dashboard"
	"github.com/Kaylacoelho/chalkboard-app/internal/feeds"
	"github.com/Kaylacoelho/chalkboard-app/internal/history"
	httpserver "github.com/Kaylacoelho/chalkboard-app/internal/http"
	"github.com/Kaylacoelho/chalkboard-app/internal/http/handlers"
	"github.com/Kaylacoelho/chalkboard-app/internal/logging"
	"github.com/Kaylacoelho/chalkboard-app/internal/metrics"
	"github.com/Kaylacoelho/chalkboard-app/internal/poller"
	"github.com/Kaylacoelho/chalkboard-app/internal/store"
)

var metricsSetup = metrics.Setup

// Server owns the poller, the HTTP API and every optional sink for one process.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.MemoryStore
	history       *history.Store
	dashboard     *dashboard.Service
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	metricsStop   func(context.Context) error
	closers       []func() error
}

// New constructs a server with the configured feed, sinks and poller. It
// restores the newest snapshot when one exists.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServer(ctx, cfg, logger, nil, nil)
}

func newServer(ctx context.Context, cfg config.Config, logger *slog.Logger, feed feeds.LeagueFeed, recorder *metrics.Recorder) (*Server, error) {
	registry, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("league registry: %w", err)
	}

	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	factory := newFeedFactory(logger, recorder)
	if feed == nil {
		feed = factory.build(cfg)
	} else {
		feed = factory.wrap(cfg, feed)
	}

	st := store.NewMemoryStore()
	hist := history.NewStore()
	dash := dashboard.NewService(registry, logger)

	sinks := buildSinks(ctx, cfg, logger)
	restoreSnapshot(sinks.snaps, st, hist, dash, logger)

	plr := poller.New(feed, registry, hist, st, dash, poller.Options{
		Interval:     cfg.PollInterval,
		FetchTimeout: cfg.FetchTimeout,
		PruneAfter:   cfg.PruneAfter,
		Sinks:        sinks.sinks,
		Logger:       logger,
		Metrics:      recorder,
	})

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         st,
		history:       hist,
		dashboard:     dash,
		httpServer:    buildHTTPServer(cfg, dash, plr, logger, recorder),
		metricsServer: metricsSrv,
		poller:        plr,
		metricsStop:   metricsShutdown,
		closers:       sinks.closers,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, dash *dashboard.Service, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		dashboard:  dash,
		httpServer: httpSrv,
		poller:     plr,
	}
}

func buildHTTPServer(cfg config.Config, dash *dashboard.Service, plr Poller, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	var statusFn func() poller.Status
	if plr != nil {
		statusFn = plr.Status
	}

	handler := handlers.NewHandler(dash, logger, statusFn)
	var admin *handlers.AdminHandler
	if cfg.AdminToken != "" && plr != nil {
		admin = handlers.NewAdminHandler(plr, cfg.AdminToken, logger)
	}
	router := httpserver.NewRouter(handler, admin, httpserver.RouterOptions{
		Logger:         logger,
		Metrics:        recorder,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})
	return newNetHTTPServer(cfg.Port, router)
}

// Run starts the poller and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if err := s.poller.Start(ctx); err != nil {
		logging.Error(s.logger, "poller start failed", err)
		if stop != nil {
			stop()
		}
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

// Tick runs one poll cycle outside the schedule.
func (s *Server) Tick(ctx context.Context) (dashboard.View, error) {
	return s.poller.Tick(ctx)
}

// Close releases sink connections and flushes telemetry. Run calls it on shutdown.
func (s *Server) Close(ctx context.Context) {
	if s.metricsStop != nil {
		if err := s.metricsStop(ctx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "err", err)
		}
	}
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			logging.Warn(s.logger, "sink close failed", "err", err)
		}
	}
	s.closers = nil
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "err", err)
		}
	}

	if err := s.poller.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop poller", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	s.Close(shutdownCtx)
	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{srv: &http.Server{
			Addr:              ":" + recCfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: readTimeout,
		}}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "err", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
