package feeds

import (
	"errors"
	"fmt"
	"time"
)

// ErrFeedUnavailable is returned when no upstream feed is configured.
var ErrFeedUnavailable = errors.New("feed unavailable")

// RateLimitError captures rate limit responses from upstream feeds.
type RateLimitError struct {
	Feed       string
	League     string
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "feed rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}
