package quota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/venturehunt/channelscout/internal/crawl"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestGovernor(cfg Config) (*Governor, *fakeClock, *[]time.Duration) {
	clk := &fakeClock{now: time.Unix(1700000000, 0).UTC()}
	g := New(cfg, clk, zap.NewNop())

	var sleeps []time.Duration
	g.sleep = func(d time.Duration) {
		sleeps = append(sleeps, d)
		clk.advance(d)
	}
	return g, clk, &sleeps
}

func TestThrottleUnderTargetReturnsImmediately(t *testing.T) {
	t.Parallel()

	g, clk, sleeps := newTestGovernor(Config{TargetRate: 0.112})
	clk.advance(100 * time.Second)
	g.Charge(1)

	require.NoError(t, g.Throttle(context.Background()))
	require.Empty(t, *sleeps)
}

func TestThrottleSleepsUntilRateRecovers(t *testing.T) {
	t.Parallel()

	g, clk, sleeps := newTestGovernor(Config{
		TargetRate:   0.112,
		PollInterval: 100 * time.Second,
	})

	// 100 credits over 100 seconds is a rate of 1.0. Each poll sleep adds
	// 100 seconds of elapsed time; the rate dips under 0.112 once elapsed
	// reaches 900 seconds, eight sleeps later.
	clk.advance(100 * time.Second)
	g.Charge(100)

	require.NoError(t, g.Throttle(context.Background()))
	require.Len(t, *sleeps, 8)
	for _, d := range *sleeps {
		require.Equal(t, 100*time.Second, d)
	}
}

func TestThrottleRolloverResetsCounters(t *testing.T) {
	t.Parallel()

	g, clk, sleeps := newTestGovernor(Config{
		TargetRate:   0.112,
		PollInterval: time.Minute,
		Window:       24 * time.Hour,
	})

	// Establish a high-water elapsed observation.
	clk.advance(1000 * time.Second)
	g.Charge(10)
	require.NoError(t, g.Throttle(context.Background()))

	// Cross the window boundary: elapsed wraps and comes back smaller,
	// which is the only rollover signal available.
	clk.advance(24*time.Hour - 990*time.Second)
	require.NoError(t, g.Throttle(context.Background()))

	require.Equal(t, []time.Duration{time.Second}, *sleeps)

	snap := g.Snapshot()
	require.Zero(t, snap.CreditsUsed)
	require.Zero(t, snap.Rate)
}

func TestThrottleHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	g, clk, _ := newTestGovernor(Config{TargetRate: 0.112, PollInterval: time.Minute})
	clk.advance(10 * time.Second)
	g.Charge(1000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Throttle(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	g, clk, _ := newTestGovernor(Config{TargetRate: 0.112})
	clk.advance(50 * time.Second)
	g.Charge(100)
	g.Charge(1)

	snap := g.Snapshot()
	require.Equal(t, int64(50), snap.ElapsedSeconds)
	require.Equal(t, int64(101), snap.CreditsUsed)
	require.InDelta(t, 101.0/50.0, snap.Rate, 1e-9)
	require.Equal(t, 0.112, snap.TargetRate)
}

var _ crawl.Governor = (*Governor)(nil)
