package youtube

// Response kind discriminators. A payload whose kind does not match the
// expected discriminator is an API contract violation, not a transient
// failure.
const (
	kindSearchList   = "youtube#searchListResponse"
	kindSearchResult = "youtube#searchResult"
	kindChannelList  = "youtube#channelListResponse"
)

type searchListResponse struct {
	Kind  string           `json:"kind"`
	Items []searchListItem `json:"items"`
}

type searchListItem struct {
	Kind    string `json:"kind"`
	Snippet struct {
		// Present for both video and channel results; for a video result
		// this is the owning channel.
		ChannelID string `json:"channelId"`
	} `json:"snippet"`
}

type channelListResponse struct {
	Kind     string `json:"kind"`
	PageInfo struct {
		ResultsPerPage int `json:"resultsPerPage"`
	} `json:"pageInfo"`
	Items []channelListItem `json:"items"`
}

type channelListItem struct {
	ID               string            `json:"id"`
	Snippet          channelSnippet    `json:"snippet"`
	Statistics       channelStatistics `json:"statistics"`
	BrandingSettings brandingSettings  `json:"brandingSettings"`
	Status           channelStatus     `json:"status"`
}

type channelSnippet struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	CustomURL       string     `json:"customUrl"`
	PublishedAt     string     `json:"publishedAt"`
	DefaultLanguage string     `json:"defaultLanguage"`
	Country         string     `json:"country"`
	Thumbnails      thumbnails `json:"thumbnails"`
}

type thumbnails struct {
	Default thumbnail `json:"default"`
	Medium  thumbnail `json:"medium"`
	High    thumbnail `json:"high"`
}

type thumbnail struct {
	URL string `json:"url"`
}

// Counts arrive as decimal strings.
type channelStatistics struct {
	ViewCount       string `json:"viewCount"`
	SubscriberCount string `json:"subscriberCount"`
	VideoCount      string `json:"videoCount"`
}

type brandingSettings struct {
	Channel brandingChannel `json:"channel"`
}

type brandingChannel struct {
	Keywords string `json:"keywords"`
	Country  string `json:"country"`
}

type channelStatus struct {
	MadeForKids bool `json:"madeForKids"`
}
