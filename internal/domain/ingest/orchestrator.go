// Package ingest runs the full adapter set against the catalog store: a
// fan-out with per-adapter failure isolation, a fan-in that normalizes and
// deduplicates the harvest, and one transactional batch upsert per run.
package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Wpprobot/cartahub/internal/domain/offer"
	"github.com/Wpprobot/cartahub/internal/domain/scraper"
)

const (
	defaultAdapterTimeout     = 5 * time.Minute
	defaultBrowserConcurrency = 2
	defaultHTTPConcurrency    = 8

	// DefaultRetention is how long a row survives without being
	// re-observed before the purge sweep removes it.
	DefaultRetention = 24 * time.Hour
)

// Store is the slice of the catalog store the orchestrator writes to.
type Store interface {
	UpsertBatch(ctx context.Context, offers []offer.Offer) error
	PurgeStale(ctx context.Context, window time.Duration) (int64, error)
	SetLastRefresh(ctx context.Context, t time.Time) error
}

// AdapterReport captures one adapter's outcome within a run. Err is the
// captured failure, if any; it never propagated past this boundary.
type AdapterReport struct {
	Name     string
	Raw      int
	Offers   int
	Rejected int
	Err      error
	Duration time.Duration
}

// Report summarizes one refresh run.
type Report struct {
	RunID     string
	StartedAt time.Time
	Adapters  []AdapterReport
	Upserted  int
	Purged    int64
}

// Options tunes an Orchestrator. Zero values select the defaults.
type Options struct {
	AdapterTimeout     time.Duration
	BrowserConcurrency int
	HTTPConcurrency    int
	Retention          time.Duration
}

// Orchestrator fans the adapter set out under two concurrency caps, one
// small cap for headless-browser adapters (session creation is expensive)
// and a generous one for plain HTTP adapters.
type Orchestrator struct {
	adapters []scraper.Adapter
	store    Store
	opts     Options
}

func NewOrchestrator(adapters []scraper.Adapter, store Store, opts Options) *Orchestrator {
	if opts.AdapterTimeout <= 0 {
		opts.AdapterTimeout = defaultAdapterTimeout
	}
	if opts.BrowserConcurrency <= 0 {
		opts.BrowserConcurrency = defaultBrowserConcurrency
	}
	if opts.HTTPConcurrency <= 0 {
		opts.HTTPConcurrency = defaultHTTPConcurrency
	}
	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	return &Orchestrator{adapters: adapters, store: store, opts: opts}
}

// Run executes one full refresh: every adapter fetches under its cap and
// timeout, failures are captured per adapter without cancelling siblings,
// and the surviving offers are committed as a single batch. Only a store
// failure makes Run return an error; the prior catalog state stays intact
// in that case.
func (o *Orchestrator) Run(ctx context.Context) (Report, error) {
	report := Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	log.Info().Str("run_id", report.RunID).Int("adapters", len(o.adapters)).
		Msg("Refresh run started")

	browserSlots := make(chan struct{}, o.opts.BrowserConcurrency)
	httpSlots := make(chan struct{}, o.opts.HTTPConcurrency)

	results := make([]adapterResult, len(o.adapters))
	var wg sync.WaitGroup
	for i, a := range o.adapters {
		wg.Add(1)
		go func(i int, a scraper.Adapter) {
			defer wg.Done()
			results[i] = o.runAdapter(ctx, a, browserSlots, httpSlots)
		}(i, a)
	}
	wg.Wait()

	seen := map[string]struct{}{}
	var batch []offer.Offer
	for _, res := range results {
		report.Adapters = append(report.Adapters, res.report)
		for _, of := range res.offers {
			if _, dup := seen[of.ID]; dup {
				continue // same logical offer extracted twice in one run
			}
			seen[of.ID] = struct{}{}
			batch = append(batch, of)
		}
	}

	if len(batch) > 0 {
		if err := o.store.UpsertBatch(ctx, batch); err != nil {
			log.Error().Err(err).Str("run_id", report.RunID).
				Msg("Batch commit failed, catalog left untouched")
			return report, err
		}
		report.Upserted = len(batch)
	}

	purged, err := o.store.PurgeStale(ctx, o.opts.Retention)
	if err != nil {
		log.Error().Err(err).Str("run_id", report.RunID).Msg("Retention sweep failed")
	} else {
		report.Purged = purged
	}

	if err := o.store.SetLastRefresh(ctx, time.Now().UTC()); err != nil {
		log.Error().Err(err).Str("run_id", report.RunID).Msg("Failed to record refresh timestamp")
	}

	log.Info().Str("run_id", report.RunID).Int("upserted", report.Upserted).
		Int64("purged", report.Purged).Msg("Refresh run complete")
	return report, nil
}

type adapterResult struct {
	report AdapterReport
	offers []offer.Offer
}

// runAdapter fetches and normalizes under the adapter's slot and timeout.
// Every failure mode ends up in the report; panics aside, nothing escapes.
func (o *Orchestrator) runAdapter(ctx context.Context, a scraper.Adapter, browserSlots, httpSlots chan struct{}) adapterResult {
	res := adapterResult{report: AdapterReport{Name: a.Name()}}

	slots := httpSlots
	if a.Browser() {
		slots = browserSlots
	}
	select {
	case slots <- struct{}{}:
		defer func() { <-slots }()
	case <-ctx.Done():
		res.report.Err = ctx.Err()
		return res
	}

	start := time.Now()
	fetchCtx, cancel := context.WithTimeout(ctx, o.opts.AdapterTimeout)
	defer cancel()

	raws, err := a.Fetch(fetchCtx)
	res.report.Duration = time.Since(start)
	res.report.Raw = len(raws)
	if err != nil {
		// Transport failure after the client's single retry: this
		// adapter contributes nothing, siblings are unaffected.
		res.report.Err = err
		log.Warn().Err(err).Str("source", a.Name()).Msg("Adapter failed for this run")
		return res
	}

	for _, raw := range raws {
		of, err := offer.Normalize(raw)
		if err != nil {
			res.report.Rejected++
			if !errors.Is(err, offer.ErrValidation) {
				log.Debug().Err(err).Str("source", a.Name()).Msg("Record rejected")
			}
			continue
		}
		res.offers = append(res.offers, of)
	}
	res.report.Offers = len(res.offers)

	log.Info().Str("source", a.Name()).Int("raw", res.report.Raw).
		Int("offers", res.report.Offers).Int("rejected", res.report.Rejected).
		Dur("took", res.report.Duration).Msg("Adapter finished")
	return res
}
