package crawl

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/venturehunt/channelscout/internal/keywords"
	"github.com/venturehunt/channelscout/internal/metrics"
)

// Orchestrator drives the crawl loop: plan, search, resolve each result
// channel, finalize the search, throttle, repeat. Strictly sequential; at
// most one remote call is in flight at any time.
type Orchestrator struct {
	queries   QuerySource
	store     Store
	client    SearchClient
	governor  Governor
	alerter   Alerter
	publisher Publisher
	clock     Clock
	logger    *zap.Logger

	runID            string
	channelsGrabbed  atomic.Int64
	searchesExecuted atomic.Int64
	searchesSkipped  atomic.Int64
}

// NewOrchestrator constructs an Orchestrator. publisher may be nil.
func NewOrchestrator(
	queries QuerySource,
	store Store,
	client SearchClient,
	governor Governor,
	alerter Alerter,
	publisher Publisher,
	clock Clock,
	logger *zap.Logger,
) *Orchestrator {
	runID := uuid.NewString()
	return &Orchestrator{
		queries:   queries,
		store:     store,
		client:    client,
		governor:  governor,
		alerter:   alerter,
		publisher: publisher,
		clock:     clock,
		logger:    logger.With(zap.String("run_id", runID)),
		runID:     runID,
	}
}

// Run executes the crawl until the query stream is exhausted or a fatal
// failure aborts it. Fatal failures are alerted before the error returns.
func (o *Orchestrator) Run(ctx context.Context) error {
	start := o.clock.Now()
	o.logger.Info("starting channel crawl")

	for {
		q, ok := o.queries.Next()
		if !ok {
			break
		}
		if err := validateDescriptor(q); err != nil {
			return o.fatal(ctx, err)
		}

		seen, err := o.store.HasSearch(ctx, q.Encoded)
		if err != nil {
			return o.fatal(ctx, fmt.Errorf("dedup lookup for %q: %w", q.Encoded, err))
		}
		if seen {
			o.searchesSkipped.Add(1)
			metrics.ObserveSearch("skipped")
			o.logger.Debug("already searched", zap.String("query", q.Encoded))
			continue
		}

		if err := o.runSearch(ctx, q); err != nil {
			return o.fatal(ctx, err)
		}

		if err := o.governor.Throttle(ctx); err != nil {
			return fmt.Errorf("throttle: %w", err)
		}
	}

	o.logger.Info("channel crawl complete",
		zap.Int64("channels_grabbed", o.channelsGrabbed.Load()),
		zap.Int64("searches_executed", o.searchesExecuted.Load()),
		zap.Int64("searches_skipped", o.searchesSkipped.Load()),
		zap.Duration("elapsed", o.clock.Now().Sub(start)),
	)
	return nil
}

func (o *Orchestrator) runSearch(ctx context.Context, q QueryDescriptor) error {
	o.logger.Info("searching", zap.String("query", q.Encoded))

	page, err := o.client.Search(ctx, q)
	if err != nil {
		return fmt.Errorf("search %q: %w", q.Encoded, err)
	}
	o.searchesExecuted.Add(1)
	metrics.ObserveSearch("executed")
	o.logger.Info("search returned",
		zap.String("query", q.Encoded),
		zap.Int("results", len(page.Items)),
	)

	for _, item := range page.Items {
		if err := o.resolveChannel(ctx, q, item); err != nil {
			return err
		}
	}

	if err := o.store.RecordSearch(ctx, q.Encoded, len(page.Items)); err != nil {
		return fmt.Errorf("record search %q: %w", q.Encoded, err)
	}
	return nil
}

// resolveChannel processes one search result item. A known channel only
// gets the bare row keyword merged in; an unknown one costs a detail call
// and a full insert. Each path is its own committed unit of work.
func (o *Orchestrator) resolveChannel(ctx context.Context, q QueryDescriptor, item SearchItem) error {
	existing, err := o.store.FindChannel(ctx, item.ChannelID)
	if err != nil {
		return fmt.Errorf("find channel %s: %w", item.ChannelID, err)
	}
	if existing != nil {
		if err := o.store.MergeChannelKeywords(ctx, item.ChannelID, []string{q.Keyword}); err != nil {
			return fmt.Errorf("merge keywords into channel %s: %w", item.ChannelID, err)
		}
		metrics.ObserveChannel("merged")
		o.logger.Info("added keyword to known channel",
			zap.String("channel_id", item.ChannelID),
			zap.String("title", existing.Title),
			zap.String("keyword", q.Keyword),
		)
		return nil
	}

	detail, err := o.client.ChannelDetail(ctx, item.ChannelID)
	if errors.Is(err, ErrDetailAnomaly) {
		metrics.ObserveChannel("anomaly")
		o.logger.Warn("skipping channel with anomalous detail response",
			zap.String("channel_id", item.ChannelID),
			zap.Error(err),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("channel detail %s: %w", item.ChannelID, err)
	}

	rec := ChannelRecord{
		ChannelID:       detail.ChannelID,
		Title:           detail.Title,
		Description:     detail.Description,
		Keywords:        keywords.ParseTags(detail.BrandingKeywords, q.Keyword),
		ThumbDefault:    detail.ThumbDefault,
		ThumbMedium:     detail.ThumbMedium,
		ThumbHigh:       detail.ThumbHigh,
		PublishedAt:     detail.PublishedAt,
		CustomURL:       detail.CustomURL,
		DefaultLanguage: detail.DefaultLanguage,
		Country:         detail.Country,
		ViewCount:       detail.ViewCount,
		SubscriberCount: detail.SubscriberCount,
		VideoCount:      detail.VideoCount,
		MadeForKids:     detail.MadeForKids,
		ContactEmails:   keywords.ExtractEmails(detail.Description),
	}
	if err := o.store.InsertChannel(ctx, rec); err != nil {
		return fmt.Errorf("insert channel %s: %w", rec.ChannelID, err)
	}
	o.channelsGrabbed.Add(1)
	metrics.ObserveChannel("new")
	o.logger.Info("saved channel",
		zap.String("channel_id", rec.ChannelID),
		zap.String("title", rec.Title),
		zap.Int64("subscribers", rec.SubscriberCount),
	)
	if o.publisher != nil {
		o.publisher.ChannelDiscovered(ctx, rec)
	}
	return nil
}

// fatal funnels every abort path through the single alert-and-terminate
// collaborator before handing the error back to the caller.
func (o *Orchestrator) fatal(ctx context.Context, err error) error {
	o.logger.Error("crawl aborted", zap.Error(err))
	o.alerter.Alert(ctx, fmt.Sprintf("channel crawl aborted (run %s): %v", o.runID, err))
	if IsFatal(err) {
		return err
	}
	return &FatalError{Reason: "crawl aborted", Err: err}
}

// Stats returns an operational snapshot. Safe to call while Run is active.
func (o *Orchestrator) Stats() Stats {
	return Stats{
		RunID:            o.runID,
		ChannelsGrabbed:  o.channelsGrabbed.Load(),
		SearchesExecuted: o.searchesExecuted.Load(),
		SearchesSkipped:  o.searchesSkipped.Load(),
		Quota:            o.governor.Snapshot(),
	}
}

// validateDescriptor guards against planner bugs. Unreachable with
// validated seed input, fatal if it ever trips.
func validateDescriptor(q QueryDescriptor) error {
	if q.Position != ModifierPre && q.Position != ModifierPost {
		return Fatalf("query %q has invalid modifier position %q", q.Encoded, q.Position)
	}
	if q.Type != ResultTypeVideo && q.Type != ResultTypeChannel {
		return Fatalf("query %q has invalid result type %q", q.Encoded, q.Type)
	}
	if q.Encoded == "" {
		return Fatalf("query for keyword %q has empty encoded form", q.Keyword)
	}
	return nil
}
