// Package main hosts the channelscout service entrypoint.
//
// Architecture overview:
//   - Planning: internal/seeds loads the keyword CSV and internal/planner
//     expands it against the configured modifier set, yielding one query
//     descriptor at a time in modifier-major order.
//   - Crawl loop: internal/crawl.Orchestrator runs the plan strictly
//     sequentially. Each query is dedup-checked against Postgres, searched,
//     and every result channel is either merged (known) or fetched in
//     detail, parsed, and inserted (new).
//   - Quota & pacing: internal/quota tracks cumulative request cost and
//     blocks between searches until the long-run rate is back under target;
//     internal/pace spaces successive API calls per call class.
//   - Persistence: internal/store/postgres wraps pgxpool with per-write
//     transactions over the searches and channels tables.
//   - Notifications: internal/notify delivers fatal-crawl alerts and
//     best-effort channel discovery events via Pub/Sub, or falls back to
//     the process log.
//   - Ops: internal/api serves /healthz, /readyz, /metrics and /stats on a
//     chi router while the crawl runs. Prometheus counters track searches,
//     channels, quota spend and API request outcomes.
//
// Operational notes:
//   - Concurrency model: single crawl goroutine with at most one remote
//     call in flight; the ops server runs alongside it. Shutdown is
//     coordinated via context cancellation from SIGINT/SIGTERM.
//   - Configuration: Viper populates config from a file and/or
//     CHANNELSCOUT_* env vars; zap provides structured logging.
//
// Run locally: go run . crawl --config config.yaml
package main
