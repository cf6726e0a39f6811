// Package youtube implements the retrying client for the two remote
// calls the crawl makes: keyword search and channel detail lookup.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/venturehunt/channelscout/internal/crawl"
	"github.com/venturehunt/channelscout/internal/metrics"
)

// Quota cost per call class, fixed by the remote API.
const (
	searchCost = 100
	detailCost = 1
)

// Call class labels, also used as metric labels.
const (
	callSearch = "search"
	callDetail = "channels"
)

// Config controls the Client.
type Config struct {
	// BaseURL is the API root, e.g. "https://www.googleapis.com/youtube/v3".
	BaseURL string
	// APIKey is the credential appended to every request.
	APIKey string
	// MaxResults bounds each search to a single page of this many items.
	MaxResults int
	// MaxAttempts is total attempts per call (first try included).
	MaxAttempts int
	// BackoffBase is the wait after the first failed attempt; each further
	// failure multiplies it by BackoffFactor.
	BackoffBase   time.Duration
	BackoffFactor int
	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxResults <= 0 {
		c.MaxResults = 50
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = 10 * time.Second
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = 10
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}

// Governor receives the quota charge after each successful call.
type Governor interface {
	Charge(cost int)
}

// Pacer spaces successive calls per class after a success.
type Pacer interface {
	WaitSearch(ctx context.Context) error
	WaitDetail(ctx context.Context) error
}

// Client wraps the remote API with bounded retry, post-success pacing and
// quota charging. Exhausted retries and kind mismatches come back as
// crawl.FatalError.
type Client struct {
	cfg      Config
	http     *http.Client
	governor Governor
	pacer    Pacer
	logger   *zap.Logger
}

// New constructs a Client.
func New(cfg Config, governor Governor, pacer Pacer, logger *zap.Logger) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.Timeout},
		governor: governor,
		pacer:    pacer,
		logger:   logger,
	}
}

// Search issues one bounded search page for the query.
func (c *Client) Search(ctx context.Context, q crawl.QueryDescriptor) (crawl.SearchPage, error) {
	url := fmt.Sprintf("%s/search?part=snippet&maxResults=%d&%s&key=%s",
		c.cfg.BaseURL, c.cfg.MaxResults, q.Encoded, c.cfg.APIKey)

	body, err := c.get(ctx, url, callSearch)
	if err != nil {
		return crawl.SearchPage{}, err
	}

	var envelope searchListResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return crawl.SearchPage{}, &crawl.FatalError{Reason: "decode search response", Err: err}
	}
	if envelope.Kind != kindSearchList {
		return crawl.SearchPage{}, crawl.Fatalf("search response kind %q, want %q", envelope.Kind, kindSearchList)
	}

	page := crawl.SearchPage{Items: make([]crawl.SearchItem, 0, len(envelope.Items))}
	for _, item := range envelope.Items {
		if item.Kind != kindSearchResult {
			return crawl.SearchPage{}, crawl.Fatalf("search item kind %q, want %q", item.Kind, kindSearchResult)
		}
		page.Items = append(page.Items, crawl.SearchItem{ChannelID: item.Snippet.ChannelID})
	}
	return page, nil
}

// ChannelDetail fetches the full metadata for one channel id. A response
// reporting other than one result wraps crawl.ErrDetailAnomaly so the
// caller can skip the channel and continue.
func (c *Client) ChannelDetail(ctx context.Context, channelID string) (crawl.ChannelDetail, error) {
	url := fmt.Sprintf("%s/channels?part=snippet%%2CcontentDetails%%2Cstatistics%%2CbrandingSettings%%2Cstatus&id=%s&key=%s",
		c.cfg.BaseURL, channelID, c.cfg.APIKey)

	body, err := c.get(ctx, url, callDetail)
	if err != nil {
		return crawl.ChannelDetail{}, err
	}

	var envelope channelListResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return crawl.ChannelDetail{}, &crawl.FatalError{Reason: "decode channel response", Err: err}
	}
	if envelope.Kind != kindChannelList {
		return crawl.ChannelDetail{}, crawl.Fatalf("channel response kind %q, want %q", envelope.Kind, kindChannelList)
	}
	if envelope.PageInfo.ResultsPerPage != 1 || len(envelope.Items) != 1 {
		return crawl.ChannelDetail{}, fmt.Errorf("%w: id %s reported %d results per page with %d items",
			crawl.ErrDetailAnomaly, channelID, envelope.PageInfo.ResultsPerPage, len(envelope.Items))
	}

	return buildDetail(channelID, envelope.Items[0])
}

// buildDetail applies the boundary defaults: optional snippet/branding/
// status fields decode to their zero values, and country prefers the
// snippet value over the branding one when both are set.
func buildDetail(channelID string, item channelListItem) (crawl.ChannelDetail, error) {
	viewCount, err := parseCount(item.Statistics.ViewCount, "viewCount")
	if err != nil {
		return crawl.ChannelDetail{}, err
	}
	subscriberCount, err := parseCount(item.Statistics.SubscriberCount, "subscriberCount")
	if err != nil {
		return crawl.ChannelDetail{}, err
	}
	videoCount, err := parseCount(item.Statistics.VideoCount, "videoCount")
	if err != nil {
		return crawl.ChannelDetail{}, err
	}

	country := item.Snippet.Country
	if country == "" {
		country = item.BrandingSettings.Channel.Country
	}

	return crawl.ChannelDetail{
		ChannelID:        channelID,
		Title:            item.Snippet.Title,
		Description:      item.Snippet.Description,
		ThumbDefault:     item.Snippet.Thumbnails.Default.URL,
		ThumbMedium:      item.Snippet.Thumbnails.Medium.URL,
		ThumbHigh:        item.Snippet.Thumbnails.High.URL,
		PublishedAt:      item.Snippet.PublishedAt,
		CustomURL:        item.Snippet.CustomURL,
		DefaultLanguage:  item.Snippet.DefaultLanguage,
		Country:          country,
		ViewCount:        viewCount,
		SubscriberCount:  subscriberCount,
		VideoCount:       videoCount,
		MadeForKids:      item.Status.MadeForKids,
		BrandingKeywords: item.BrandingSettings.Channel.Keywords,
	}, nil
}

func parseCount(raw, field string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, raw, err)
	}
	return n, nil
}

// get performs one remote call with up to MaxAttempts tries. Transport
// failures and non-OK statuses share the same backoff schedule; the final
// failure is fatal. A success waits out the class pacer and charges the
// governor before the body is returned.
func (c *Client) get(ctx context.Context, url, call string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			metrics.ObserveAPIRetry(call)
			delay := c.backoff(attempt - 1)
			c.logger.Warn("retrying request",
				zap.String("call", call),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", delay),
				zap.Error(lastErr),
			)
			if err := sleepCtx(ctx, delay); err != nil {
				return nil, err
			}
		}

		body, err := c.attempt(ctx, url, call)
		if err == nil {
			if err := c.pace(ctx, call); err != nil {
				return nil, err
			}
			c.governor.Charge(costFor(call))
			return body, nil
		}
		lastErr = err
	}
	return nil, &crawl.FatalError{Reason: fmt.Sprintf("%s call failed after %d attempts", call, c.cfg.MaxAttempts), Err: lastErr}
}

func (c *Client) attempt(ctx context.Context, url, call string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveAPIRequest(call, 0, time.Since(start))
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	metrics.ObserveAPIRequest(call, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

func (c *Client) pace(ctx context.Context, call string) error {
	if c.pacer == nil {
		return nil
	}
	if call == callSearch {
		return c.pacer.WaitSearch(ctx)
	}
	return c.pacer.WaitDetail(ctx)
}

// backoff returns BackoffBase * BackoffFactor^n: 10s after the first
// failure, 100s after the second with the defaults.
func (c *Client) backoff(n int) time.Duration {
	delay := c.cfg.BackoffBase
	for i := 0; i < n; i++ {
		delay *= time.Duration(c.cfg.BackoffFactor)
	}
	return delay
}

func costFor(call string) int {
	if call == callSearch {
		return searchCost
	}
	return detailCost
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("backoff interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
