package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler fires the refresh loop on a fixed interval, plus once
// immediately at startup so the catalog is populated without waiting for
// the first tick.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	spec   string
}

// NewScheduler builds a Scheduler firing every intervalHours hours.
func NewScheduler(runner *Runner, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		spec:   fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the cron job and kicks off the initial refresh.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("register refresh job: %w", err)
	}

	s.cron.Start()
	log.Info().Str("spec", s.spec).Msg("Refresh scheduler started")

	go s.tick(ctx)
	return nil
}

// Stop halts the scheduler; an in-flight refresh finishes on its own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Info().Msg("Refresh scheduler stopped")
}

func (s *Scheduler) tick(ctx context.Context) {
	report, err := s.runner.Refresh(ctx)
	if errors.Is(err, ErrRunInProgress) {
		log.Info().Msg("Refresh tick skipped, previous run still active")
		return
	}
	s.runner.logOutcome(report, err)
}
