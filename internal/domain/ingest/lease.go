package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrRunInProgress is returned when a refresh trigger finds another run
// already holding the lease.
var ErrRunInProgress = errors.New("refresh run already in progress")

const (
	leaseKey         = "cartahub:refresh:lease"
	lastRefreshCache = "cartahub:refresh:last"
)

// Lease serializes refresh runs across triggers (cron tick, manual CLI)
// using a redis SETNX with TTL. The TTL is a crash backstop: a process
// that dies mid-run stops blocking refreshes once it expires.
type Lease struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewLease(rdb *redis.Client, ttl time.Duration) *Lease {
	return &Lease{rdb: rdb, ttl: ttl}
}

// Acquire takes the lease for runID. Returns ErrRunInProgress when held.
func (l *Lease) Acquire(ctx context.Context, runID string) error {
	ok, err := l.rdb.SetNX(ctx, leaseKey, runID, l.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrRunInProgress
	}
	return nil
}

// Release drops the lease if this run still holds it.
func (l *Lease) Release(ctx context.Context, runID string) {
	held, err := l.rdb.Get(ctx, leaseKey).Result()
	if err != nil || held != runID {
		return
	}
	if err := l.rdb.Del(ctx, leaseKey).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to release refresh lease")
	}
}

// CacheLastRefresh mirrors the catalog's refresh timestamp into redis so
// cheap freshness probes skip the database.
func (l *Lease) CacheLastRefresh(ctx context.Context, t time.Time) {
	if err := l.rdb.Set(ctx, lastRefreshCache, t.UTC().Format(time.RFC3339), 0).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to cache refresh timestamp")
	}
}
