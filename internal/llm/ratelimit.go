package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// limiter throttles outbound generation calls to at most rps per second with
// the given burst. A nil limiter never blocks.
type limiter struct {
	rl *rate.Limiter
}

func newLimiter(rps float64, burst int) *limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &limiter{rl: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until a token is available or ctx is done.
func (l *limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.rl.Wait(ctx)
}
