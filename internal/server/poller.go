package server

import (
	"context"

	"github.com/Kaylacoelho/chalkboard-app/internal/dashboard"
	"github.com/Kaylacoelho/chalkboard-app/internal/poller"
)

// Poller defines the poller behavior the server drives.
type Poller interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Tick(ctx context.Context) (dashboard.View, error)
	Status() poller.Status
}
