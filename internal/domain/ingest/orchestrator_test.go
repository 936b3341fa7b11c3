package ingest_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Wpprobot/cartahub/internal/domain/ingest"
	"github.com/Wpprobot/cartahub/internal/domain/offer"
	"github.com/Wpprobot/cartahub/internal/domain/scraper"
)

// gauge tracks how many fakes share it are in flight at once.
type gauge struct {
	mu      sync.Mutex
	running int
	peak    int
}

func (g *gauge) enter() {
	g.mu.Lock()
	g.running++
	if g.running > g.peak {
		g.peak = g.running
	}
	g.mu.Unlock()
}

func (g *gauge) leave() {
	g.mu.Lock()
	g.running--
	g.mu.Unlock()
}

type fakeAdapter struct {
	name    string
	browser bool
	raws    []offer.RawOffer
	err     error
	delay   time.Duration
	gauge   *gauge
}

func (f *fakeAdapter) Name() string  { return f.name }
func (f *fakeAdapter) Browser() bool { return f.browser }

func (f *fakeAdapter) Fetch(ctx context.Context) ([]offer.RawOffer, error) {
	if f.gauge != nil {
		f.gauge.enter()
		defer f.gauge.leave()
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.raws, nil
}

type fakeStore struct {
	mu          sync.Mutex
	upserted    []offer.Offer
	upsertErr   error
	purged      int64
	lastRefresh time.Time
}

func (s *fakeStore) UpsertBatch(ctx context.Context, offers []offer.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserted = append(s.upserted, offers...)
	return nil
}

func (s *fakeStore) PurgeStale(ctx context.Context, window time.Duration) (int64, error) {
	return s.purged, nil
}

func (s *fakeStore) SetLastRefresh(ctx context.Context, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRefresh = t
	return nil
}

func raw(source string, credit string) offer.RawOffer {
	return offer.RawOffer{
		SourceName:        source,
		SourceURL:         "https://" + source + ".example/c/1",
		CreditText:        credit,
		AdministratorText: "Embracon",
		CategoryText:      "carro",
	}
}

func TestRunAdapterIsolation(t *testing.T) {
	good := &fakeAdapter{name: "good", raws: []offer.RawOffer{raw("good", "R$ 90.000,00")}}
	bad := &fakeAdapter{name: "bad", err: errors.New("connection refused")}
	alsoGood := &fakeAdapter{name: "also-good", raws: []offer.RawOffer{raw("also-good", "R$ 110.000,00")}}

	store := &fakeStore{}
	orch := ingest.NewOrchestrator([]scraper.Adapter{good, bad, alsoGood}, store, ingest.Options{})

	report, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("adapter failure must never fail the run: %v", err)
	}

	if len(store.upserted) != 2 {
		t.Fatalf("upserted = %d, want offers from both healthy adapters", len(store.upserted))
	}
	if report.Upserted != 2 {
		t.Errorf("report.Upserted = %d, want 2", report.Upserted)
	}

	var badReport *ingest.AdapterReport
	for i := range report.Adapters {
		if report.Adapters[i].Name == "bad" {
			badReport = &report.Adapters[i]
		}
	}
	if badReport == nil || badReport.Err == nil {
		t.Error("failing adapter's error must be captured in the report")
	}
	if store.lastRefresh.IsZero() {
		t.Error("successful run must record a refresh timestamp")
	}
}

func TestRunRejectsInvalidRecords(t *testing.T) {
	a := &fakeAdapter{name: "src", raws: []offer.RawOffer{
		raw("src", "R$ 90.000,00"),
		raw("src", ""), // non-positive credit, rejected by normalization
		raw("src", "R$ 100.000,00"),
	}}
	store := &fakeStore{}
	orch := ingest.NewOrchestrator([]scraper.Adapter{a}, store, ingest.Options{})

	report, err := orch.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(store.upserted) != 2 {
		t.Fatalf("upserted = %d, want 2", len(store.upserted))
	}
	if report.Adapters[0].Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", report.Adapters[0].Rejected)
	}
}

func TestRunDeduplicatesWithinBatch(t *testing.T) {
	// The same logical offer extracted twice in one run collapses to one
	// upsert; the same numbers from another source stay distinct.
	a := &fakeAdapter{name: "src", raws: []offer.RawOffer{
		raw("src", "R$ 90.000,00"),
		raw("src", "R$ 90.000,00"),
	}}
	b := &fakeAdapter{name: "other", raws: []offer.RawOffer{
		raw("other", "R$ 90.000,00"),
	}}
	store := &fakeStore{}
	orch := ingest.NewOrchestrator([]scraper.Adapter{a, b}, store, ingest.Options{})

	if _, err := orch.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(store.upserted) != 2 {
		t.Fatalf("upserted = %d, want 2 (in-batch dup collapsed, cross-source kept)", len(store.upserted))
	}
}

func TestRunStoreFailure(t *testing.T) {
	a := &fakeAdapter{name: "src", raws: []offer.RawOffer{raw("src", "R$ 90.000,00")}}
	store := &fakeStore{upsertErr: errors.New("connection lost")}
	orch := ingest.NewOrchestrator([]scraper.Adapter{a}, store, ingest.Options{})

	if _, err := orch.Run(context.Background()); err == nil {
		t.Fatal("store failure must surface as a run failure")
	}
	if !store.lastRefresh.IsZero() {
		t.Error("failed run must not record a refresh timestamp")
	}
}

func TestRunBrowserConcurrencyCap(t *testing.T) {
	g := &gauge{}
	adapters := make([]scraper.Adapter, 0, 6)
	for i := 0; i < 6; i++ {
		adapters = append(adapters, &fakeAdapter{
			name:    string(rune('a' + i)),
			browser: true,
			delay:   30 * time.Millisecond,
			gauge:   g,
		})
	}

	store := &fakeStore{}
	orch := ingest.NewOrchestrator(adapters, store, ingest.Options{BrowserConcurrency: 2})
	if _, err := orch.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if g.peak > 2 {
		t.Fatalf("peak browser concurrency = %d, want at most 2", g.peak)
	}
	if g.peak == 0 {
		t.Fatal("no adapter ran")
	}
}

func TestRunAdapterTimeout(t *testing.T) {
	slow := &fakeAdapter{name: "slow", delay: time.Second,
		raws: []offer.RawOffer{raw("slow", "R$ 90.000,00")}}
	fast := &fakeAdapter{name: "fast", raws: []offer.RawOffer{raw("fast", "R$ 80.000,00")}}

	store := &fakeStore{}
	orch := ingest.NewOrchestrator([]scraper.Adapter{slow, fast}, store,
		ingest.Options{AdapterTimeout: 20 * time.Millisecond})

	report, err := orch.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(store.upserted) != 1 {
		t.Fatalf("upserted = %d, want only the fast adapter's offer", len(store.upserted))
	}
	for _, a := range report.Adapters {
		if a.Name == "slow" && a.Err == nil {
			t.Error("timed-out adapter must carry an error in the report")
		}
	}
}
