// refresh is the manual trigger: one guarded refresh run (or just the
// retention sweep / duplicate collapse) and exit. Useful from a shell or a
// container job while the external HTTP layer stays out of this repo.
package main

import (
	"context"
	"flag"
	"os"

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
	purgeOnly := flag.Bool("purge-only", false, "run the retention sweep and exit without scraping")
	collapse := flag.Bool("collapse", false, "also collapse near-duplicate rows after the run")
	flag.Parse()

	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	if cfg.RegistryFile != "" {
		reg, err := classify.Load(cfg.RegistryFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load classification registry")
		}
		classify.SetDefault(reg)
	}

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if err := migrations.Up(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	repo := offer.NewRepository(db)
	ctx := context.Background()

	if *purgeOnly {
		purged, err := repo.PurgeStale(ctx, cfg.RetentionWindow)
		if err != nil {
			log.Fatal().Err(err).Msg("Retention sweep failed")
		}
		log.Info().Int64("purged", purged).Msg("Retention sweep complete")
		return
	}

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	orch := ingest.NewOrchestrator(scraper.BuildAdapters(cfg), repo, ingest.Options{
		AdapterTimeout:     cfg.AdapterTimeout,
		BrowserConcurrency: cfg.BrowserConcurrency,
		HTTPConcurrency:    cfg.HTTPConcurrency,
		Retention:          cfg.RetentionWindow,
	})

	var lease *ingest.Lease
	if rdb != nil {
		lease = ingest.NewLease(rdb, cfg.LeaseTTL)
	}

	report, err := ingest.NewRunner(orch, lease).Refresh(ctx)
	if err != nil {
		log.Error().Err(err).Str("run_id", report.RunID).Msg("Refresh failed")
		os.Exit(1)
	}

	for _, a := range report.Adapters {
		ev := log.Info()
		if a.Err != nil {
			ev = log.Warn().Err(a.Err)
		}
		ev.Str("source", a.Name).Int("offers", a.Offers).Int("rejected", a.Rejected).
			Dur("took", a.Duration).Msg("Source result")
	}
	log.Info().Str("run_id", report.RunID).Int("upserted", report.Upserted).
		Int64("purged", report.Purged).Msg("Refresh complete")

	if *collapse {
		merged, err := repo.Collapse(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Collapse pass failed")
		}
		log.Info().Int64("merged", merged).Msg("Collapse pass complete")
	}
}
