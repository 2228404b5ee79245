package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Kaylacoelho/chalkboard-app/internal/config"
	"github.com/Kaylacoelho/chalkboard-app/internal/dashboard"
	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/history"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
	"github.com/Kaylacoelho/chalkboard-app/internal/logging"
	"github.com/Kaylacoelho/chalkboard-app/internal/poller"
	"github.com/Kaylacoelho/chalkboard-app/internal/publisher"
	"github.com/Kaylacoelho/chalkboard-app/internal/snapshots"
	"github.com/Kaylacoelho/chalkboard-app/internal/store"
)

var redisConnect = publisher.Connect

// sinkComponents are the optional outputs a tick publishes to.
type sinkComponents struct {
	sinks   []poller.Sink
	snaps   snapshots.Store
	closers []func() error
}

// buildSinks wires the snapshot writer and Redis mirror when configured.
// A Redis outage at boot disables the mirror rather than the service.
func buildSinks(ctx context.Context, cfg config.Config, logger *slog.Logger) sinkComponents {
	var out sinkComponents

	if cfg.Snapshots.Enabled() {
		out.sinks = append(out.sinks, snapshots.NewWriter(cfg.Snapshots.Dir, cfg.Snapshots.RetentionDays, logger))
		out.snaps = snapshots.NewFSStore(cfg.Snapshots.Dir)
	}

	if cfg.Redis.Enabled() {
		pingCtx, cancel := context.WithTimeout(ctx, bootTimeout)
		client, err := redisConnect(pingCtx, cfg.Redis.URL)
		cancel()
		if err != nil {
			logging.Warn(logger, "redis unavailable, continuing without mirror", logging.FieldSink, "redis", "err", err)
		} else {
			out.sinks = append(out.sinks, publisher.NewRedisSink(client, publisher.Options{
				LatestTTL: cfg.Redis.TTL,
				Logger:    logger,
			}))
			out.closers = append(out.closers, client.Close)
		}
	}
	return out
}

// restoreSnapshot seeds the store, history and dashboard from the newest
// snapshot so the API serves last-known state before the first tick lands.
func restoreSnapshot(snaps snapshots.Store, st *store.MemoryStore, hist *history.Store, dash *dashboard.Service, logger *slog.Logger) bool {
	if snaps == nil {
		return false
	}
	snap, err := snaps.LoadLatest()
	if err != nil {
		if !errors.Is(err, snapshots.ErrNoSnapshot) {
			logging.Warn(logger, "snapshot restore failed", "err", err)
		}
		return false
	}

	st.Replace(snap.Leagues, snap.WrittenAt)
	hist.Restore(snap.History)
	view := dash.Publish(dashboard.Input{
		TickID:  snap.TickID,
		Sets:    st.Sets(enabledOrder(dash.Registry())),
		Rings:   hist.Snapshot(),
		BuiltAt: snap.WrittenAt,
	})
	logging.Info(logger, "restored dashboard snapshot",
		logging.FieldTickID, snap.TickID,
		logging.FieldCount, len(view.AllGames()),
	)
	return true
}

func enabledOrder(reg *leagues.Registry) []games.League {
	enabled := reg.Enabled()
	out := make([]games.League, len(enabled))
	for i, cfg := range enabled {
		out[i] = cfg.Key
	}
	return out
}
