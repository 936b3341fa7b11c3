package offer

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Wpprobot/cartahub/internal/pkg/validator"
)

// DefaultBracketK is how many neighbors each side of a bracket query
// returns when the caller gives no K.
const DefaultBracketK = 3

// Service is the read path over the catalog: tolerance-aware filtered
// search and the nearest-neighbor bracket query.
type Service struct {
	repo *Repository
}

func NewService(db *sqlx.DB) *Service {
	return &Service{repo: NewRepository(db)}
}

// Search answers a filtered, paginated query. The credit value band, the
// unknown-tolerant max filters and the ordering are described on
// buildFilter; Total and ByCategory are computed against the same filter
// regardless of pagination.
func (s *Service) Search(ctx context.Context, c FilterCriteria) (SearchResult, error) {
	if err := validator.Struct(c); err != nil {
		return SearchResult{}, fmt.Errorf("%w: %v", ErrInvalidCriteria, err)
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}

	offers, err := s.repo.Search(ctx, c)
	if err != nil {
		return SearchResult{}, err
	}
	total, err := s.repo.Count(ctx, c)
	if err != nil {
		return SearchResult{}, err
	}
	byCategory, err := s.repo.CountByCategory(ctx, c)
	if err != nil {
		return SearchResult{}, err
	}

	return SearchResult{
		Offers:     offers,
		Total:      total,
		ByCategory: byCategory,
		Page:       c.Page,
		PageSize:   c.PageSize,
	}, nil
}

// Bracket returns the closest offers on each side of a target credit
// value. Used when a tolerance search comes back empty or thin, to present
// alternatives; no tolerance band applies.
func (s *Service) Bracket(ctx context.Context, q BracketQuery) (BracketResult, error) {
	if err := validator.Struct(q); err != nil {
		return BracketResult{}, fmt.Errorf("%w: %v", ErrInvalidCriteria, err)
	}
	if q.K <= 0 {
		q.K = DefaultBracketK
	}

	above, err := s.repo.NearestAbove(ctx, q, q.K)
	if err != nil {
		return BracketResult{}, err
	}
	below, err := s.repo.NearestBelow(ctx, q, q.K)
	if err != nil {
		return BracketResult{}, err
	}

	return BracketResult{Above: above, Below: below}, nil
}

// Get is a point lookup by content-hash id.
func (s *Service) Get(ctx context.Context, id string) (Offer, error) {
	return s.repo.GetByID(ctx, id)
}

// Administrators lists the distinct administrators present in the catalog.
func (s *Service) Administrators(ctx context.Context) ([]string, error) {
	return s.repo.ListAdministrators(ctx)
}

// Sources lists the distinct source names present in the catalog.
func (s *Service) Sources(ctx context.Context) ([]string, error) {
	return s.repo.ListSources(ctx)
}

// LastRefresh exposes catalog freshness. Staleness never turns into a
// query error; callers decide what to do with an old timestamp.
func (s *Service) LastRefresh(ctx context.Context) (time.Time, error) {
	return s.repo.LastRefresh(ctx)
}
