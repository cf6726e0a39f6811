package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/venturehunt/channelscout/internal/crawl"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalYAML = `
api:
  key: secret
db:
  dsn: postgres://localhost/channelscout
`

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	require.Equal(t, "https://www.googleapis.com/youtube/v3", cfg.API.BaseURL)
	require.Equal(t, 50, cfg.API.MaxResults)
	require.Equal(t, 0.112, cfg.Quota.TargetRate)
	require.Equal(t, time.Minute, cfg.PollInterval())
	require.Equal(t, 24*time.Hour, cfg.QuotaWindow())
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout())
	require.Equal(t, 3, cfg.HTTP.MaxAttempts)
	require.Equal(t, 10*time.Second, cfg.BackoffBase())
	require.Equal(t, 10, cfg.HTTP.BackoffFactor)
	require.Equal(t, 2100*time.Millisecond, cfg.SearchDelay())
	require.Equal(t, 2100*time.Millisecond, cfg.ChannelDelay())
	require.Equal(t, "keywords.csv", cfg.Seeds.Path)
	require.Equal(t, "log", cfg.Notify.Provider)
	require.Equal(t, 8080, cfg.Server.Port)
	require.False(t, cfg.Logging.Development)
}

func TestLoadFileOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `
api:
  base_url: https://api.example.test/v3
  key: secret
  max_results: 25
quota:
  target_rate: 0.05
  poll_seconds: 30
http:
  max_attempts: 5
  backoff_base_ms: 500
db:
  dsn: postgres://localhost/channelscout
  max_conns: 4
seeds:
  path: /data/keywords.csv
notify:
  provider: pubsub
  project_id: proj-1
  alert_topic: crawl-alerts
  event_topic: channel-events
server:
  port: 9090
logging:
  development: true
`))
	require.NoError(t, err)

	require.Equal(t, "https://api.example.test/v3", cfg.API.BaseURL)
	require.Equal(t, 25, cfg.API.MaxResults)
	require.Equal(t, 0.05, cfg.Quota.TargetRate)
	require.Equal(t, 30*time.Second, cfg.PollInterval())
	require.Equal(t, 5, cfg.HTTP.MaxAttempts)
	require.Equal(t, 500*time.Millisecond, cfg.BackoffBase())
	require.Equal(t, int32(4), cfg.DB.MaxConns)
	require.Equal(t, "/data/keywords.csv", cfg.Seeds.Path)
	require.Equal(t, "pubsub", cfg.Notify.Provider)
	require.Equal(t, "proj-1", cfg.Notify.ProjectID)
	require.Equal(t, 9090, cfg.Server.Port)
	require.True(t, cfg.Logging.Development)
}

func TestLoadAppliesDefaultModifiers(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	mods := cfg.Modifiers()
	require.Equal(t, []crawl.Modifier{
		{Term: "best ", Position: crawl.ModifierPre, Column: 2},
		{Term: " tips", Position: crawl.ModifierPost, Column: 5},
		{Term: " reviews", Position: crawl.ModifierPost, Column: 3},
		{Term: " advice", Position: crawl.ModifierPost, Column: 6},
		{Term: " unboxing", Position: crawl.ModifierPost, Column: 4},
	}, mods)
}

func TestLoadConfiguredModifiersWin(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, minimalYAML+`
seeds:
  path: keywords.csv
  modifiers:
    - term: "cheap "
      position: pre
      column: 2
`))
	require.NoError(t, err)

	mods := cfg.Modifiers()
	require.Equal(t, []crawl.Modifier{
		{Term: "cheap ", Position: crawl.ModifierPre, Column: 2},
	}, mods)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing api key",
			yaml:    "db:\n  dsn: postgres://localhost/x\n",
			wantErr: "api.key",
		},
		{
			name:    "missing dsn",
			yaml:    "api:\n  key: secret\n",
			wantErr: "db.dsn",
		},
		{
			name:    "bad target rate",
			yaml:    minimalYAML + "quota:\n  target_rate: 0\n",
			wantErr: "quota.target_rate",
		},
		{
			name:    "pubsub without project",
			yaml:    minimalYAML + "notify:\n  provider: pubsub\n",
			wantErr: "notify.project_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
