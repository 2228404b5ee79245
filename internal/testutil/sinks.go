package testutil

import (
	"context"
	"sync"

	"github.com/Kaylacoelho/chalkboard-app/internal/dashboard"
)

// StubSink records every published view.
type StubSink struct {
	mu    sync.Mutex
	Views []dashboard.View
	Err   error
}

// Publish implements poller.Sink.
func (s *StubSink) Publish(ctx context.Context, view dashboard.View) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Views = append(s.Views, view)
	return s.Err
}

// Count returns the number of views received.
func (s *StubSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Views)
}
