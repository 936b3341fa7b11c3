// Package scraper implements the per-source extraction layer: one Adapter
// per listing site, a shared rate-limited HTTP client, and a scoped
// headless-browser session for sites that only render offers client-side.
//
// Adapters only extract: they emit RawOffer records and never normalize,
// so adding a source is a new adapter and nothing else.
package scraper

import (
	"context"
	"errors"

	"github.com/Wpprobot/cartahub/internal/domain/offer"
)

// ErrTransport marks fetch/navigation failures. The shared client retries
// once; after that the adapter's contribution for the run is empty. It is
// non-fatal to the run as a whole.
var ErrTransport = errors.New("transport failure")

// Adapter is one origin listing site. Fetch returns every raw offer the
// site currently lists; a malformed individual record is skipped without
// aborting its siblings, so the only error Fetch returns is transport
// level.
type Adapter interface {
	// Name tags every record this adapter produces and is part of offer
	// identity.
	Name() string

	// Browser reports whether Fetch drives a headless browser session.
	// The orchestrator schedules browser adapters under a smaller
	// concurrency cap because session creation is expensive.
	Browser() bool

	Fetch(ctx context.Context) ([]offer.RawOffer, error)
}
