package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/defijosh/ronintracker/internal/blob/s3"
	"github.com/defijosh/ronintracker/internal/cache/file"
	"github.com/defijosh/ronintracker/internal/cache/memory"
	cacheredis "github.com/defijosh/ronintracker/internal/cache/redis"
	"github.com/defijosh/ronintracker/internal/config"
	"github.com/defijosh/ronintracker/internal/domain"
	"github.com/defijosh/ronintracker/internal/gateway"
	"github.com/defijosh/ronintracker/internal/notify"
	"github.com/defijosh/ronintracker/internal/platform/coingecko"
	"github.com/defijosh/ronintracker/internal/platform/dune"
	"github.com/defijosh/ronintracker/internal/service"
	"github.com/defijosh/ronintracker/internal/store/postgres"
)

// Dependencies bundles everything the application modes need to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Cache    domain.CacheStore
	Gateway  *gateway.Gateway
	Intel    *service.IntelService
	History  domain.ScoreHistoryStore // nil when Postgres is not configured
	Archiver domain.DatasetArchiver   // nil when S3 or archiving is not configured
	Blobs    domain.BlobReader        // nil when S3 is not configured
	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Dataset cache ---
	switch cfg.Cache.Backend {
	case "file":
		store, err := file.New(cfg.Cache.Dir, cfg.Cache.TTL, logger)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: file cache: %w", err)
		}
		deps.Cache = store
	case "redis":
		store, err := cacheredis.New(ctx, cacheredis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		}, cfg.Cache.TTL, logger)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis cache: %w", err)
		}
		closers = append(closers, func() { _ = store.Close() })
		deps.Cache = store
	case "memory":
		deps.Cache = memory.New(cfg.Cache.TTL)
	default:
		cleanup()
		return nil, nil, fmt.Errorf("wire: unsupported cache backend %q", cfg.Cache.Backend)
	}

	// --- Provider gateway ---
	snapshots := coingecko.NewClient(cfg.Providers.CoinGeckoBaseURL, cfg.Providers.CoinGeckoAPIKey)
	queries := dune.NewClient(cfg.Providers.DuneBaseURL, cfg.Providers.DuneAPIKey)
	deps.Gateway = gateway.New(cfg.Providers, snapshots, queries, deps.Cache, logger)

	// --- PostgreSQL score history (optional) ---
	if cfg.HasPostgres() {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.MaxConns,
			MinConns: cfg.Postgres.MinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}

		deps.History = postgres.NewScoreHistoryStore(pgClient.Pool())
	}

	// --- S3 dataset archive (optional) ---
	if cfg.S3.Bucket != "" {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			PlainHTTP:      cfg.S3.PlainHTTP,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		deps.Blobs = s3blob.NewReader(s3Client)
		if cfg.Refresh.Archive {
			deps.Archiver = s3blob.NewDatasetArchive(s3blob.NewWriter(s3Client), "datasets")
		}
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	// --- Analytics service ---
	deps.Intel = service.NewIntelService(
		deps.Gateway,
		deps.Cache,
		deps.History,
		cfg.Analytics.WhaleThresholdUSD,
		logger,
	)

	return deps, cleanup, nil
}
