package application

import (
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("not found")

// RateLimitError is returned by a Quoter when the upstream answered
// with 429. The resolver records backoff state from it exactly once
// per limiting event; it never reaches callers.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limited, retry after %s", e.Provider, e.RetryAfter)
}
