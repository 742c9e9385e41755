package ai

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Throttled spaces requests to a Generator so that at most rpm are issued per
// minute. Requests are never dropped or reordered, only delayed.
type Throttled struct {
	next    Generator
	limiter *rate.Limiter
}

// Throttle wraps g. A non-positive rpm returns g unchanged.
func Throttle(g Generator, rpm int) Generator {
	if rpm <= 0 {
		return g
	}
	return &Throttled{
		next:    g,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
	}
}

func (t *Throttled) Generate(ctx context.Context, directive, body string) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return t.next.Generate(ctx, directive, body)
}
