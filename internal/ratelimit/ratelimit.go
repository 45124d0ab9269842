// Package ratelimit implements fixed-window request limits keyed by client.
package ratelimit

import (
	"context"
	"math"
	"time"
)

const (
	DefaultWindow      = time.Minute
	DefaultMaxRequests = 100
)

type Config struct {
	Window      time.Duration
	MaxRequests int
}

// Normalize fills zero fields with the defaults.
func (c Config) Normalize() Config {
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.MaxRequests <= 0 {
		c.MaxRequests = DefaultMaxRequests
	}
	return c
}

// Decision is the outcome of one Allow call. RetryAfter is set only when
// the request was refused.
type Decision struct {
	Allowed    bool
	Count      int
	Remaining  int
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, never below 1
// for a refused request.
func (d Decision) RetryAfterSeconds() int {
	if d.Allowed {
		return 0
	}
	secs := int(math.Ceil(d.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
