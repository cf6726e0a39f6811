// Package notify delivers out-of-band crawl alerts and channel discovery
// events. The Pub/Sub implementations are best effort: a lost event never
// fails the crawl, and an alert's own delivery failure is only logged.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/venturehunt/channelscout/internal/crawl"
)

// LogAlerter writes alerts to the process log only. The fallback when no
// Pub/Sub alert topic is configured.
type LogAlerter struct {
	logger *zap.Logger
}

// NewLogAlerter constructs a LogAlerter.
func NewLogAlerter(logger *zap.Logger) *LogAlerter {
	return &LogAlerter{logger: logger}
}

// Alert implements crawl.Alerter.
func (a *LogAlerter) Alert(_ context.Context, msg string) {
	a.logger.Error("crawl alert", zap.String("message", msg))
}

// NopPublisher drops discovery events.
type NopPublisher struct{}

// ChannelDiscovered implements crawl.Publisher.
func (NopPublisher) ChannelDiscovered(_ context.Context, _ crawl.ChannelRecord) {}
