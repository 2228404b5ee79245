package feeds

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
)

type flakeyFeed struct {
	failures int32
	calls    atomic.Int32
	failWith error
}

func (f *flakeyFeed) Name() string { return "flakey" }

func (f *flakeyFeed) FetchLeague(ctx context.Context, league leagues.Config) ([]games.GameRecord, error) {
	n := f.calls.Add(1)
	if n <= f.failures {
		if f.failWith != nil {
			return nil, f.failWith
		}
		return nil, errors.New("boom")
	}
	return []games.GameRecord{{ID: "ok", League: league.Key}}, nil
}
