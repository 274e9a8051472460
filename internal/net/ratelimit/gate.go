// Package ratelimit provides the pre-call gate that keeps coinpulse under
// the CoinGecko free-tier request ceiling.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate enforces a fixed minimum delay before each outbound request using a
// token bucket with burst 1. The initial token is drained at construction,
// so even the first Wait blocks a full interval and the process never fires
// immediately on startup.
//
// The gate serializes requests within one process only. Two concurrently
// started processes share the upstream IP ceiling and must be serialized by
// whatever invokes them.
type Gate struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewGate builds a gate that admits one call per interval. A zero or
// negative interval disables the delay (useful in tests).
func NewGate(interval time.Duration) *Gate {
	if interval <= 0 {
		return &Gate{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	limiter.Allow() // drain the initial token
	return &Gate{limiter: limiter, interval: interval}
}

// Wait blocks until the next call is admitted or the context is cancelled.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

// Interval returns the configured minimum delay between calls.
func (g *Gate) Interval() time.Duration {
	return g.interval
}
