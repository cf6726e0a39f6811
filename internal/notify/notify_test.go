package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/venturehunt/channelscout/internal/crawl"
)

func TestLogAlerter(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.ErrorLevel)
	a := NewLogAlerter(zap.New(core))

	a.Alert(context.Background(), "channel crawl aborted (run x): search failed")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "crawl alert", entries[0].Message)
	require.Equal(t, "channel crawl aborted (run x): search failed", entries[0].ContextMap()["message"])
}

func TestNopPublisher(t *testing.T) {
	t.Parallel()

	var p NopPublisher
	p.ChannelDiscovered(context.Background(), crawl.ChannelRecord{ChannelID: "UC1"})
}

var (
	_ crawl.Alerter   = (*LogAlerter)(nil)
	_ crawl.Publisher = NopPublisher{}
	_ crawl.Alerter   = (*PubSub)(nil)
	_ crawl.Publisher = (*PubSub)(nil)
)
