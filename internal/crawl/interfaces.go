package crawl

import (
	"context"
	"time"
)

// QuerySource yields the planned query stream. Restartable from the
// beginning only: build a new source to start over.
type QuerySource interface {
	Next() (QueryDescriptor, bool)
}

// Store is the dedup/merge authority over persisted crawl state. Every
// mutating call is one committed unit of work; a returned error means the
// write was rolled back.
type Store interface {
	HasSearch(ctx context.Context, queryKey string) (bool, error)
	RecordSearch(ctx context.Context, queryKey string, resultCount int) error
	FindChannel(ctx context.Context, channelID string) (*ChannelRecord, error)
	InsertChannel(ctx context.Context, rec ChannelRecord) error
	MergeChannelKeywords(ctx context.Context, channelID string, keywords []string) error
}

// SearchClient performs the two remote calls, including retry, pacing and
// quota charging. Kind-validated payloads come back already defaulted.
type SearchClient interface {
	Search(ctx context.Context, q QueryDescriptor) (SearchPage, error)
	ChannelDetail(ctx context.Context, channelID string) (ChannelDetail, error)
}

// Governor meters quota spend and holds the crawl to its long-run average
// rate. Throttle blocks until the rolling-window rate is back under target.
type Governor interface {
	Charge(cost int)
	Throttle(ctx context.Context) error
	Snapshot() QuotaSnapshot
}

// Alerter delivers the out-of-band abort notification. Best effort: its
// own failure is not handled.
type Alerter interface {
	Alert(ctx context.Context, msg string)
}

// Publisher pushes discovery events for newly inserted channels.
type Publisher interface {
	ChannelDiscovered(ctx context.Context, rec ChannelRecord)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
