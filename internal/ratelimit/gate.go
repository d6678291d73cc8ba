// Package ratelimit enforces a minimum spacing between outbound provider calls.
package ratelimit

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum spacing between search provider calls.
const DefaultInterval = time.Second

// Gate lets one caller through per interval. Callers arriving inside the
// window block for the remainder; concurrent callers queue up serially, each
// one interval after the previous.
type Gate struct {
	limiter  *rate.Limiter
	interval time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

// WithSleep overrides how the gate waits out the remaining window.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(g *Gate) {
		g.sleep = sleep
	}
}

// NewGate creates a Gate that admits one call per interval. A non-positive
// interval disables limiting.
func NewGate(interval time.Duration, opts ...Option) *Gate {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	g := &Gate{
		limiter:  rate.NewLimiter(limit, 1),
		interval: interval,
		now:      time.Now,
		sleep:    sleepCtx,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Interval returns the configured minimum spacing.
func (g *Gate) Interval() time.Duration {
	return g.interval
}

// Wait blocks until the caller may proceed. The slot is reserved atomically
// before sleeping, so two callers never pass within the same window.
func (g *Gate) Wait(ctx context.Context) error {
	now := g.now()
	r := g.limiter.ReserveN(now, 1)
	if !r.OK() {
		return eris.New("ratelimit: reservation refused")
	}

	delay := r.DelayFrom(now)
	if delay <= 0 {
		return nil
	}

	zap.L().Debug("ratelimit: waiting for slot", zap.Duration("delay", delay))
	if err := g.sleep(ctx, delay); err != nil {
		r.CancelAt(g.now())
		return eris.Wrap(err, "ratelimit: wait")
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
