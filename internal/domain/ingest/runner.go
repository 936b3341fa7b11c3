package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Runner is the refresh entry point shared by the scheduler and the manual
// trigger: it guards the orchestrator with the run lease so overlapping
// triggers cannot double-scrape.
type Runner struct {
	orch  *Orchestrator
	lease *Lease // nil disables cross-process serialization
}

func NewRunner(orch *Orchestrator, lease *Lease) *Runner {
	return &Runner{orch: orch, lease: lease}
}

// Refresh runs one guarded refresh. A held lease returns ErrRunInProgress
// without touching any adapter.
func (r *Runner) Refresh(ctx context.Context) (Report, error) {
	if r.lease == nil {
		return r.orch.Run(ctx)
	}

	token := uuid.New().String()
	if err := r.lease.Acquire(ctx, token); err != nil {
		return Report{}, err
	}
	defer r.lease.Release(ctx, token)

	report, err := r.orch.Run(ctx)
	if err == nil {
		r.lease.CacheLastRefresh(ctx, time.Now().UTC())
	}
	return report, err
}

// logOutcome is shared by the cron path, which has no caller to hand the
// report to.
func (r *Runner) logOutcome(report Report, err error) {
	if err != nil {
		log.Error().Err(err).Str("run_id", report.RunID).Msg("Scheduled refresh failed")
		return
	}
	for _, a := range report.Adapters {
		if a.Err != nil {
			log.Warn().Err(a.Err).Str("source", a.Name).Msg("Source skipped this cycle")
		}
	}
}
