// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package throttle paces requests to a remote service. Each source client
// holds one Pacer and waits on it before every request, so consecutive
// requests are spaced by at least the configured interval whatever the
// previous outcome was.
package throttle

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum interval between requests to one service.
type Pacer interface {
	// Wait blocks until the next request may be issued.
	Wait(ctx context.Context) error

	// Backoff delays the next permitted request by at least d from now.
	Backoff(d time.Duration)
}

// Limiter is a Pacer backed by a token bucket with a burst of one.
type Limiter struct {
	lim *rate.Limiter

	mu        sync.Mutex
	notBefore time.Time
}

// New returns a Limiter allowing one request per interval. A non-positive
// interval disables pacing.
func New(interval time.Duration) *Limiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Limiter{lim: rate.NewLimiter(limit, 1)}
}

// Unlimited returns a Limiter that never waits and ignores Backoff.
func Unlimited() *Limiter {
	return &Limiter{}
}

// Wait blocks for any pending back-off, then for the next token.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.lim == nil {
		return ctx.Err()
	}

	l.mu.Lock()
	until := l.notBefore
	l.mu.Unlock()

	if d := time.Until(until); d > 0 {
		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return l.lim.Wait(ctx)
}

// Backoff pushes the next permitted request to at least now+d.
func (l *Limiter) Backoff(d time.Duration) {
	if l.lim == nil || d <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if until := time.Now().Add(d); until.After(l.notBefore) {
		l.notBefore = until
	}
}
