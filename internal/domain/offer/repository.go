package offer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const queryTimeout = 5 * time.Second

// metadata key for the catalog-wide refresh timestamp.
const lastRefreshKey = "last_refresh_timestamp"

const offerColumns = `id, category, credit_value, down_payment, installment_count,
	installment_value, admin_fee_percent, administrator, source_name, source_url,
	group_code, quota, description, last_seen_at`

// Repository is the catalog store: an indexed offers table keyed by the
// content hash, plus a small metadata table.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// UpsertBatch applies one refresh run's offers as a single transaction.
// Re-observed rows keep their identity and get last_seen_at advanced;
// mutable fields (url, description, fee, category) are refreshed from the
// newest observation. Any failure rolls the whole batch back, leaving the
// prior catalog state intact and queryable.
func (r *Repository) UpsertBatch(ctx context.Context, offers []Offer) error {
	if len(offers) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin batch tx: %v", ErrStore, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO offers (
			id, category, credit_value, down_payment, installment_count,
			installment_value, admin_fee_percent, administrator, source_name,
			source_url, group_code, quota, description, last_seen_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		ON CONFLICT (id) DO UPDATE SET
			category          = EXCLUDED.category,
			source_url        = EXCLUDED.source_url,
			admin_fee_percent = EXCLUDED.admin_fee_percent,
			description       = EXCLUDED.description,
			last_seen_at      = NOW()
	`)
	if err != nil {
		return fmt.Errorf("%w: prepare upsert: %v", ErrStore, err)
	}
	defer stmt.Close()

	for _, o := range offers {
		if _, err := stmt.ExecContext(ctx,
			o.ID, o.Category, o.CreditValue, o.DownPayment, o.InstallmentCount,
			o.InstallmentValue, o.AdminFeePercent, o.Administrator, o.SourceName,
			o.SourceURL, o.GroupCode, o.Quota, o.Description,
		); err != nil {
			return fmt.Errorf("%w: upsert offer %s: %v", ErrStore, o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit batch: %v", ErrStore, err)
	}
	return nil
}

// GetByID returns a single offer or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id string) (Offer, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var o Offer
	err := r.db.GetContext(ctx2, &o,
		`SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Offer{}, ErrNotFound
	}
	if err != nil {
		return Offer{}, fmt.Errorf("%w: get offer: %v", ErrStore, err)
	}
	return o, nil
}

// Search returns one page of offers matching the filter, ordered by credit
// value ascending with id as the stable tie-break.
func (r *Repository) Search(ctx context.Context, c FilterCriteria) ([]Offer, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args := buildFilter(c)

	pageSize := c.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	offset := c.Page * pageSize

	query := fmt.Sprintf(
		`SELECT `+offerColumns+` FROM offers%s ORDER BY credit_value ASC, id ASC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	offers := []Offer{}
	if err := r.db.SelectContext(ctx2, &offers, query, args...); err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrStore, err)
	}
	return offers, nil
}

// Count returns the total number of offers matching the filter, independent
// of pagination.
func (r *Repository) Count(ctx context.Context, c FilterCriteria) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args := buildFilter(c)

	var total int
	if err := r.db.GetContext(ctx2, &total, `SELECT COUNT(*) FROM offers`+where, args...); err != nil {
		return 0, fmt.Errorf("%w: count: %v", ErrStore, err)
	}
	return total, nil
}

// CountByCategory groups the same filtered set by category.
func (r *Repository) CountByCategory(ctx context.Context, c FilterCriteria) (map[Category]int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args := buildFilter(c)

	rows, err := r.db.QueryxContext(ctx2,
		`SELECT category, COUNT(*) FROM offers`+where+` GROUP BY category`, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: count by category: %v", ErrStore, err)
	}
	defer rows.Close()

	counts := map[Category]int{}
	for rows.Next() {
		var cat Category
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, fmt.Errorf("%w: scan category count: %v", ErrStore, err)
		}
		counts[cat] = n
	}
	return counts, rows.Err()
}

// NearestAbove returns up to k offers with credit value strictly greater
// than the target, closest first.
func (r *Repository) NearestAbove(ctx context.Context, q BracketQuery, k int) ([]Offer, error) {
	return r.nearest(ctx, q, ">", "ASC", k)
}

// NearestBelow returns up to k offers with credit value strictly less than
// the target, closest first (descending by value).
func (r *Repository) NearestBelow(ctx context.Context, q BracketQuery, k int) ([]Offer, error) {
	return r.nearest(ctx, q, "<", "DESC", k)
}

func (r *Repository) nearest(ctx context.Context, q BracketQuery, op, dir string, k int) ([]Offer, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args := bracketFilter(q, op)
	query := fmt.Sprintf(
		`SELECT `+offerColumns+` FROM offers%s ORDER BY credit_value %s, id %s LIMIT $%d`,
		where, dir, dir, len(args)+1)
	args = append(args, k)

	offers := []Offer{}
	if err := r.db.SelectContext(ctx2, &offers, query, args...); err != nil {
		return nil, fmt.Errorf("%w: nearest %s: %v", ErrStore, op, err)
	}
	return offers, nil
}

// ListAdministrators returns the distinct administrators present in the
// catalog, alphabetically.
func (r *Repository) ListAdministrators(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "administrator")
}

// ListSources returns the distinct source names present in the catalog.
func (r *Repository) ListSources(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "source_name")
}

func (r *Repository) distinct(ctx context.Context, column string) ([]string, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	values := []string{}
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM offers ORDER BY %s`, column, column)
	if err := r.db.SelectContext(ctx2, &values, query); err != nil {
		return nil, fmt.Errorf("%w: distinct %s: %v", ErrStore, column, err)
	}
	return values, nil
}

// PurgeStale removes offers not re-observed within the retention window.
func (r *Repository) PurgeStale(ctx context.Context, window time.Duration) (int64, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cutoff := time.Now().UTC().Add(-window)
	res, err := r.db.ExecContext(ctx2, `DELETE FROM offers WHERE last_seen_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: purge stale: %v", ErrStore, err)
	}
	return res.RowsAffected()
}

// Collapse merges rows that share (credit_value, administrator, source_name)
// and differ only in free-text fields, keeping the most recently observed
// row. Run occasionally; the content hash already prevents true duplicates.
func (r *Repository) Collapse(ctx context.Context) (int64, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx2, `
		DELETE FROM offers o
		USING offers newer
		WHERE o.credit_value = newer.credit_value
		  AND o.administrator = newer.administrator
		  AND o.source_name = newer.source_name
		  AND o.id <> newer.id
		  AND (newer.last_seen_at > o.last_seen_at
		       OR (newer.last_seen_at = o.last_seen_at AND newer.id > o.id))
	`)
	if err != nil {
		return 0, fmt.Errorf("%w: collapse duplicates: %v", ErrStore, err)
	}
	return res.RowsAffected()
}

// SetLastRefresh records a successful refresh run's completion time.
func (r *Repository) SetLastRefresh(ctx context.Context, t time.Time) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO metadata (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, lastRefreshKey, t.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: set last refresh: %v", ErrStore, err)
	}
	return nil
}

// LastRefresh returns the recorded completion time of the newest successful
// run, or the zero time when no run has completed yet. Staleness is only
// observable here; queries themselves never fail because of it.
func (r *Repository) LastRefresh(ctx context.Context) (time.Time, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var raw string
	err := r.db.GetContext(ctx2, &raw, `SELECT value FROM metadata WHERE key = $1`, lastRefreshKey)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: last refresh: %v", ErrStore, err)
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad last refresh value %q", ErrStore, raw)
	}
	return t, nil
}
