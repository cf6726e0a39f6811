package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/venturehunt/channelscout/internal/crawl"
)

type staticStats struct {
	stats crawl.Stats
}

func (s staticStats) Stats() crawl.Stats { return s.stats }

func newTestServer() *Server {
	return NewServer(staticStats{stats: crawl.Stats{
		RunID:            "run-1",
		ChannelsGrabbed:  3,
		SearchesExecuted: 5,
		SearchesSkipped:  2,
		Quota: crawl.QuotaSnapshot{
			ElapsedSeconds: 100,
			CreditsUsed:    505,
			Rate:           5.05,
			TargetRate:     0.112,
		},
	}}, zap.NewNop())
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		require.Equal(t, http.StatusOK, rec.Code, path)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	}
}

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got crawl.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "run-1", got.RunID)
	require.Equal(t, int64(3), got.ChannelsGrabbed)
	require.Equal(t, int64(5), got.SearchesExecuted)
	require.Equal(t, int64(2), got.SearchesSkipped)
	require.Equal(t, int64(505), got.Quota.CreditsUsed)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRouteIs404(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
