package feeds

import (
	"fmt"
	"testing"
)

func TestRateLimitErrorString(t *testing.T) {
	err := &RateLimitError{
		Feed:       "espn",
		StatusCode: 429,
		Message:    "rate limited",
	}
	if got := err.Error(); got == "" || got == "rate limited" {
		t.Fatalf("expected status in error string, got %q", got)
	}

	rl, ok := AsRateLimitError(fmt.Errorf("espn nba: %w", err))
	if !ok || rl == nil {
		t.Fatalf("expected to unwrap wrapped rate limit error")
	}

	noStatus := &RateLimitError{}
	if got := noStatus.Error(); got == "" {
		t.Fatalf("expected fallback message")
	}
	if _, ok := AsRateLimitError(ErrFeedUnavailable); ok {
		t.Fatalf("expected plain error not to unwrap")
	}
}
