// Package config loads and validates crawler configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/venturehunt/channelscout/internal/crawl"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Quota   QuotaConfig   `mapstructure:"quota"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	DB      DBConfig      `mapstructure:"db"`
	Seeds   SeedsConfig   `mapstructure:"seeds"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig locates and authenticates the remote search API.
type APIConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	Key        string `mapstructure:"key"`
	MaxResults int    `mapstructure:"max_results"`
}

// QuotaConfig governs the long-run average request-cost rate.
type QuotaConfig struct {
	// TargetRate is quota units per second. The theoretical daily budget
	// works out to 0.1157; the default is fudged down so a long run stays
	// under it.
	TargetRate  float64 `mapstructure:"target_rate"`
	PollSeconds int     `mapstructure:"poll_seconds"`
	WindowHours int     `mapstructure:"window_hours"`
}

// HTTPConfig configures retry, backoff and post-success pacing.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	MaxAttempts    int `mapstructure:"max_attempts"`
	BackoffBaseMs  int `mapstructure:"backoff_base_ms"`
	BackoffFactor  int `mapstructure:"backoff_factor"`
	SearchDelayMs  int `mapstructure:"search_delay_ms"`
	ChannelDelayMs int `mapstructure:"channel_delay_ms"`
}

// DBConfig controls access to the relational database.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// SeedsConfig locates the keyword seed file and defines the modifier set.
// Order matters: the crawl exhausts each modifier across all keywords
// before moving to the next.
type SeedsConfig struct {
	Path      string           `mapstructure:"path"`
	Modifiers []ModifierConfig `mapstructure:"modifiers"`
}

// ModifierConfig is one literal query prefix/suffix and the seed-file
// column that flags which keywords it applies to.
type ModifierConfig struct {
	Term     string `mapstructure:"term"`
	Position string `mapstructure:"position"`
	Column   int    `mapstructure:"column"`
}

// NotifyConfig selects the alert/discovery delivery backend.
type NotifyConfig struct {
	Provider   string `mapstructure:"provider"`
	ProjectID  string `mapstructure:"project_id"`
	AlertTopic string `mapstructure:"alert_topic"`
	EventTopic string `mapstructure:"event_topic"`
}

// ServerConfig controls the ops HTTP server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CHANNELSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.Seeds.Modifiers) == 0 {
		cfg.Seeds.Modifiers = DefaultModifiers()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("api.max_results", 50)
	v.SetDefault("quota.target_rate", 0.112)
	v.SetDefault("quota.poll_seconds", 60)
	v.SetDefault("quota.window_hours", 24)
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("http.max_attempts", 3)
	v.SetDefault("http.backoff_base_ms", 10000)
	v.SetDefault("http.backoff_factor", 10)
	v.SetDefault("http.search_delay_ms", 2100)
	v.SetDefault("http.channel_delay_ms", 2100)
	v.SetDefault("seeds.path", "keywords.csv")
	v.SetDefault("notify.provider", "log")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", false)
}

// DefaultModifiers is the stock modifier set. Columns index into the seed
// file, whose first two columns are keyword and result type.
func DefaultModifiers() []ModifierConfig {
	return []ModifierConfig{
		{Term: "best ", Position: "pre", Column: 2},
		{Term: " tips", Position: "post", Column: 5},
		{Term: " reviews", Position: "post", Column: 3},
		{Term: " advice", Position: "post", Column: 6},
		{Term: " unboxing", Position: "post", Column: 4},
	}
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.API.Key == "" {
		return fmt.Errorf("api.key must be set")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must be set")
	}
	if c.Quota.TargetRate <= 0 {
		return fmt.Errorf("quota.target_rate must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("db.dsn must be set")
	}
	if c.Seeds.Path == "" {
		return fmt.Errorf("seeds.path must be set")
	}
	if c.Notify.Provider == "pubsub" && c.Notify.ProjectID == "" {
		return fmt.Errorf("notify.project_id must be set when notify.provider is pubsub")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	return nil
}

// Modifiers converts the configured modifier set to domain form.
func (c Config) Modifiers() []crawl.Modifier {
	out := make([]crawl.Modifier, 0, len(c.Seeds.Modifiers))
	for _, m := range c.Seeds.Modifiers {
		out = append(out, crawl.Modifier{
			Term:     m.Term,
			Position: crawl.ModifierPosition(m.Position),
			Column:   m.Column,
		})
	}
	return out
}

// PollInterval returns the throttle poll interval.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Quota.PollSeconds) * time.Second
}

// QuotaWindow returns the rolling quota window length.
func (c Config) QuotaWindow() time.Duration {
	return time.Duration(c.Quota.WindowHours) * time.Hour
}

// HTTPTimeout returns the per-attempt HTTP timeout.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// BackoffBase returns the first retry backoff delay.
func (c Config) BackoffBase() time.Duration {
	return time.Duration(c.HTTP.BackoffBaseMs) * time.Millisecond
}

// SearchDelay returns the post-success delay between search calls.
func (c Config) SearchDelay() time.Duration {
	return time.Duration(c.HTTP.SearchDelayMs) * time.Millisecond
}

// ChannelDelay returns the post-success delay between detail calls.
func (c Config) ChannelDelay() time.Duration {
	return time.Duration(c.HTTP.ChannelDelayMs) * time.Millisecond
}
