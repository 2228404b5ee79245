package feeds

import (
	"context"
	"log/slog"

	"github.com/Kaylacoelho/chalkboard-app/internal/logging"
)

// logWithFeed emits a log entry if a logger is available and always includes the feed and league.
func logWithFeed(ctx context.Context, logger *slog.Logger, level slog.Level, feed, league string, msg string, args ...any) {
	logger = logging.FromContext(ctx, logger)
	if logger == nil {
		return
	}
	args = append(args, slog.String(logging.FieldFeed, feed), slog.String(logging.FieldLeague, league))
	logger.Log(ctx, level, msg, args...)
}
