// Package pace spaces successive remote calls with the fixed post-success
// delays the remote API expects, one limiter per call class.
package pace

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Pacer holds one token-bucket limiter per call class. Burst is 1, so the
// first call goes straight through and every later call waits out the
// class delay.
type Pacer struct {
	search *rate.Limiter
	detail *rate.Limiter
}

// New builds a Pacer from the per-class delays. A non-positive delay
// disables pacing for that class.
func New(searchDelay, detailDelay time.Duration) *Pacer {
	return &Pacer{
		search: rate.NewLimiter(limitFor(searchDelay), 1),
		detail: rate.NewLimiter(limitFor(detailDelay), 1),
	}
}

// WaitSearch blocks until the next search call may proceed.
func (p *Pacer) WaitSearch(ctx context.Context) error {
	if err := p.search.Wait(ctx); err != nil {
		return fmt.Errorf("search pace wait: %w", err)
	}
	return nil
}

// WaitDetail blocks until the next channel-detail call may proceed.
func (p *Pacer) WaitDetail(ctx context.Context) error {
	if err := p.detail.Wait(ctx); err != nil {
		return fmt.Errorf("detail pace wait: %w", err)
	}
	return nil
}

func limitFor(delay time.Duration) rate.Limit {
	if delay <= 0 {
		return rate.Inf
	}
	return rate.Every(delay)
}
