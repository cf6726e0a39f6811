package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/venturehunt/channelscout/internal/api"
	"github.com/venturehunt/channelscout/internal/clock/system"
	"github.com/venturehunt/channelscout/internal/config"
	"github.com/venturehunt/channelscout/internal/crawl"
	"github.com/venturehunt/channelscout/internal/logging"
	"github.com/venturehunt/channelscout/internal/notify"
	"github.com/venturehunt/channelscout/internal/pace"
	"github.com/venturehunt/channelscout/internal/planner"
	"github.com/venturehunt/channelscout/internal/quota"
	"github.com/venturehunt/channelscout/internal/seeds"
	"github.com/venturehunt/channelscout/internal/store/postgres"
	"github.com/venturehunt/channelscout/internal/youtube"
)

// newCrawlCmd creates and configures the 'crawl' subcommand, which runs a
// full pass over the seed keyword list.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Starts the channel discovery crawl",
		Long: `Loads the seed keyword file, plans the modifier-expanded query
sequence, and crawls it to completion. Progress is observable on the ops
HTTP server while the crawl runs.`,

		RunE: runCrawlCommand,
	}
	return cmd
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(ctx, postgres.Config{
		DSN:      cfg.DB.DSN,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	})
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	rows, err := seeds.Load(cfg.Seeds.Path)
	if err != nil {
		return fmt.Errorf("load seeds: %w", err)
	}
	plan, err := planner.New(cfg.Modifiers(), rows)
	if err != nil {
		return fmt.Errorf("build query plan: %w", err)
	}

	clk := system.New()
	governor := quota.New(quota.Config{
		TargetRate:   cfg.Quota.TargetRate,
		PollInterval: cfg.PollInterval(),
		Window:       cfg.QuotaWindow(),
	}, clk, logger.Named("quota"))

	client := youtube.New(youtube.Config{
		BaseURL:       cfg.API.BaseURL,
		APIKey:        cfg.API.Key,
		MaxResults:    cfg.API.MaxResults,
		MaxAttempts:   cfg.HTTP.MaxAttempts,
		BackoffBase:   cfg.BackoffBase(),
		BackoffFactor: cfg.HTTP.BackoffFactor,
		Timeout:       cfg.HTTPTimeout(),
	}, governor, pace.New(cfg.SearchDelay(), cfg.ChannelDelay()), logger.Named("youtube"))

	alerter, publisher, closeNotify, err := buildNotifier(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init notifier: %w", err)
	}
	defer closeNotify()

	orch := crawl.NewOrchestrator(plan, db, client, governor, alerter, publisher, clk, logger.Named("crawl"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewServer(orch, logger.Named("api")).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("ops server started", zap.Int("port", cfg.Server.Port))
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("ops server error", zap.Error(serveErr))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if shutErr := srv.Shutdown(shutdownCtx); shutErr != nil {
			logger.Error("ops server shutdown error", zap.Error(shutErr))
		}
	}()

	if err := orch.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run crawl: %w", err)
	}

	logger.Info("crawl command finished")
	return nil
}

// buildNotifier returns the alert and discovery-event delivery pair for the
// configured provider, plus a cleanup func.
func buildNotifier(ctx context.Context, cfg config.Config, logger *zap.Logger) (crawl.Alerter, crawl.Publisher, func(), error) {
	switch cfg.Notify.Provider {
	case "pubsub":
		ps, err := notify.NewPubSub(ctx, cfg.Notify.ProjectID, cfg.Notify.AlertTopic, cfg.Notify.EventTopic, logger.Named("notify"))
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if cerr := ps.Close(); cerr != nil {
				logger.Warn("pubsub close error", zap.Error(cerr))
			}
		}
		return ps, ps, closeFn, nil
	case "log":
		return notify.NewLogAlerter(logger.Named("notify")), notify.NopPublisher{}, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown notify provider %q", cfg.Notify.Provider)
	}
}
