// Package crawl holds the channel-discovery domain types and the
// orchestrator that drives a crawl run.
package crawl

// ResultType is the search type filter a query carries.
type ResultType string

// Search type filters appended to the encoded query string.
const (
	ResultTypeVideo   ResultType = "video"
	ResultTypeChannel ResultType = "channel"
)

// ModifierPosition says whether a modifier term is prepended or appended
// to the seed keyword.
type ModifierPosition string

// Modifier positions.
const (
	ModifierPre  ModifierPosition = "pre"
	ModifierPost ModifierPosition = "post"
)

// Modifier is a literal query prefix/suffix (e.g. "best ", " reviews")
// bound to a flag column of the seed file.
type Modifier struct {
	Term     string
	Position ModifierPosition
	Column   int
}

// SeedRow is one row of the keyword seed file. Fields keeps the raw
// columns so modifier flag columns can be addressed by index.
type SeedRow struct {
	Keyword string
	Type    string
	Fields  []string
}

// Flag reports whether the given column holds the literal "TRUE".
func (r SeedRow) Flag(col int) bool {
	if col < 0 || col >= len(r.Fields) {
		return false
	}
	return r.Fields[col] == "TRUE"
}

// QueryDescriptor is one planned search. Encoded is the canonical query
// string ("q=best%20drills&type=channel") and doubles as the dedup key.
type QueryDescriptor struct {
	Keyword  string
	Modifier string
	Position ModifierPosition
	Type     ResultType
	Encoded  string
}

// SearchItem is one result row of a search page. Multiple items on a page
// may carry the same channel ID; each is resolved independently.
type SearchItem struct {
	ChannelID string
}

// SearchPage is the validated payload of one search call.
type SearchPage struct {
	Items []SearchItem
}

// ChannelDetail is the boundary-validated payload of one channel-detail
// call, with optional fields already defaulted. BrandingKeywords is the
// raw creator-tagged microformat; the orchestrator parses it.
type ChannelDetail struct {
	ChannelID        string
	Title            string
	Description      string
	ThumbDefault     string
	ThumbMedium      string
	ThumbHigh        string
	PublishedAt      string
	CustomURL        string
	DefaultLanguage  string
	Country          string
	ViewCount        int64
	SubscriberCount  int64
	VideoCount       int64
	MadeForKids      bool
	BrandingKeywords string
}

// ChannelRecord is the persisted form of a discovered channel. Keywords
// only ever grows: re-encountering the channel unions new terms in.
type ChannelRecord struct {
	ChannelID       string
	Title           string
	Description     string
	Keywords        []string
	ThumbDefault    string
	ThumbMedium     string
	ThumbHigh       string
	PublishedAt     string
	CustomURL       string
	DefaultLanguage string
	Country         string
	ViewCount       int64
	SubscriberCount int64
	VideoCount      int64
	MadeForKids     bool
	ContactEmails   []string
}

// SearchRecord marks a query as fully processed. It is written only after
// every result item of the query has been resolved, so a crash mid-query
// leaves no record and the query is re-run from scratch on restart.
type SearchRecord struct {
	QueryKey    string
	ResultCount int
}

// QuotaSnapshot is a point-in-time view of the quota governor.
type QuotaSnapshot struct {
	ElapsedSeconds int64   `json:"elapsed_seconds"`
	CreditsUsed    int64   `json:"credits_used"`
	Rate           float64 `json:"rate"`
	TargetRate     float64 `json:"target_rate"`
}

// Stats is the operational snapshot served by the ops API.
type Stats struct {
	RunID            string        `json:"run_id"`
	ChannelsGrabbed  int64         `json:"channels_grabbed"`
	SearchesExecuted int64         `json:"searches_executed"`
	SearchesSkipped  int64         `json:"searches_skipped"`
	Quota            QuotaSnapshot `json:"quota"`
}
