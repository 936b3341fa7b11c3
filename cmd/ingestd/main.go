// ingestd is the catalog refresh daemon: it runs every configured source
// adapter on a cron interval, normalizes and deduplicates the harvest, and
// keeps the offers catalog fresh (upsert + retention sweep).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/Wpprobot/cartahub/internal/config"
	"github.com/Wpprobot/cartahub/internal/domain/ingest"
	"github.com/Wpprobot/cartahub/internal/domain/offer"
	"github.com/Wpprobot/cartahub/internal/domain/scraper"
	"github.com/Wpprobot/cartahub/internal/pkg/classify"
	"github.com/Wpprobot/cartahub/internal/pkg/database"
	"github.com/Wpprobot/cartahub/internal/pkg/logger"
	"github.com/Wpprobot/cartahub/migrations"
)

func main() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
	})

	if cfg.RegistryFile != "" {
		reg, err := classify.Load(cfg.RegistryFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.RegistryFile).Msg("Failed to load classification registry")
		}
		classify.SetDefault(reg)
		log.Info().Str("file", cfg.RegistryFile).Msg("Loaded classification registry override")
	}

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if err := migrations.Up(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	adapters := scraper.BuildAdapters(cfg)
	if len(adapters) == 0 {
		log.Fatal().Msg("No source adapters configured")
	}

	orch := ingest.NewOrchestrator(adapters, offer.NewRepository(db), ingest.Options{
		AdapterTimeout:     cfg.AdapterTimeout,
		BrowserConcurrency: cfg.BrowserConcurrency,
		HTTPConcurrency:    cfg.HTTPConcurrency,
		Retention:          cfg.RetentionWindow,
	})

	var lease *ingest.Lease
	if rdb != nil {
		lease = ingest.NewLease(rdb, cfg.LeaseTTL)
	}
	runner := ingest.NewRunner(orch, lease)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := ingest.NewScheduler(runner, cfg.RefreshIntervalHours)
	if err := scheduler.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	scheduler.Stop()
	cancel()
}
