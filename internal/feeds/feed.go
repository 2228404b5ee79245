package feeds

import (
	"context"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
)

// LeagueFeed fetches the current snapshot of every game in one league.
// Implementations must be safe for concurrent calls across leagues.
type LeagueFeed interface {
	FetchLeague(ctx context.Context, league leagues.Config) ([]games.GameRecord, error)
}

// Named is implemented by feeds that report a name for logs and metrics.
type Named interface {
	Name() string
}

// NameOf returns the feed's name, or "feed" when it does not report one.
func NameOf(f LeagueFeed) string {
	if n, ok := f.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return "feed"
}

// Func adapts a plain function to LeagueFeed.
type Func func(ctx context.Context, league leagues.Config) ([]games.GameRecord, error)

func (f Func) FetchLeague(ctx context.Context, league leagues.Config) ([]games.GameRecord, error) {
	return f(ctx, league)
}
