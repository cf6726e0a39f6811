// Package quota enforces the long-run average request-cost rate against
// the remote API's rolling daily quota window.
package quota

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/venturehunt/channelscout/internal/crawl"
	"github.com/venturehunt/channelscout/internal/metrics"
)

// Config controls the Governor.
type Config struct {
	// TargetRate is the quota-units-per-second average the crawl must hold.
	TargetRate float64
	// PollInterval is how long to sleep between rate re-checks while over
	// target. This is polling backoff, not a scheduled wake.
	PollInterval time.Duration
	// Window is the quota accounting window. Elapsed time wraps at this
	// boundary, which is how rollover is observed.
	Window time.Duration
}

// Governor tracks cost spent since the window started and blocks callers
// until the average rate is back under target. There is no absolute day
// boundary to key on: the only rollover signal is elapsed-seconds (taken
// modulo the window) coming back smaller than the previous observation.
type Governor struct {
	cfg    Config
	clock  crawl.Clock
	sleep  func(time.Duration)
	logger *zap.Logger

	mu          sync.Mutex
	windowStart time.Time
	cost        int64
	lastElapsed int64
}

// New builds a Governor with its window starting now.
func New(cfg Config, clock crawl.Clock, logger *zap.Logger) *Governor {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Minute
	}
	if cfg.Window <= 0 {
		cfg.Window = 24 * time.Hour
	}
	return &Governor{
		cfg:         cfg,
		clock:       clock,
		sleep:       time.Sleep,
		logger:      logger,
		windowStart: clock.Now(),
	}
}

// Charge adds cost against the current window.
func (g *Governor) Charge(cost int) {
	g.mu.Lock()
	g.cost += int64(cost)
	g.mu.Unlock()
	metrics.AddQuotaCredits(cost)
}

// Throttle blocks until costAccumulated/elapsedSeconds is at or under the
// target rate, re-checking after each poll sleep.
func (g *Governor) Throttle(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("throttle interrupted: %w", err)
		}

		elapsed, cost, rolled := g.observe()
		if rolled {
			g.logger.Info("quota window rolled over, counters reset")
			// Keep elapsed strictly positive before the next rate check.
			g.sleep(time.Second)
			continue
		}

		rate := float64(cost) / float64(elapsed)
		if rate <= g.cfg.TargetRate {
			return nil
		}

		g.logger.Info("over target quota rate, sleeping",
			zap.Float64("rate", rate),
			zap.Float64("target", g.cfg.TargetRate),
			zap.Int64("elapsed_seconds", elapsed),
			zap.Int64("credits_used", cost),
		)
		metrics.ObserveThrottleSleep()
		g.sleep(g.cfg.PollInterval)
	}
}

// observe recomputes elapsed seconds and detects rollover. On rollover the
// window restarts at now with zero cost; the caller must wait and re-check
// rather than use the returned values.
func (g *Governor) observe() (elapsed, cost int64, rolled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	elapsed = g.elapsedLocked()
	if elapsed < g.lastElapsed {
		g.windowStart = g.clock.Now()
		g.cost = 0
		g.lastElapsed = 0
		return 0, 0, true
	}
	g.lastElapsed = elapsed
	if elapsed < 1 {
		elapsed = 1
	}
	return elapsed, g.cost, false
}

// elapsedLocked returns whole seconds since windowStart, wrapped at the
// window length so a run outliving the window produces the observable
// decrease that rollover detection keys on.
func (g *Governor) elapsedLocked() int64 {
	windowSeconds := int64(g.cfg.Window / time.Second)
	total := int64(g.clock.Now().Sub(g.windowStart) / time.Second)
	return total % windowSeconds
}

// Snapshot returns the current window state for the ops API.
func (g *Governor) Snapshot() crawl.QuotaSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	elapsed := g.elapsedLocked()
	if elapsed < 1 {
		elapsed = 1
	}
	return crawl.QuotaSnapshot{
		ElapsedSeconds: elapsed,
		CreditsUsed:    g.cost,
		Rate:           float64(g.cost) / float64(elapsed),
		TargetRate:     g.cfg.TargetRate,
	}
}
