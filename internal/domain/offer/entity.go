// Package offer holds the canonical catalog model for contemplated
// consortium credit slots, their normalization from raw scraped records,
// the content-hash identity scheme, and the search engine over the store.
package offer

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the slot's asset class.
type Category string

const (
	CategoryRealEstate   Category = "real_estate"
	CategoryVehicle      Category = "vehicle"
	CategoryHeavyVehicle Category = "heavy_vehicle"
	CategoryMotorcycle   Category = "motorcycle"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryRealEstate, CategoryVehicle, CategoryHeavyVehicle, CategoryMotorcycle:
		return true
	}
	return false
}

// Offer is one contemplated credit slot in the catalog. ID is a
// deterministic content hash (see ComputeID), so re-scraping the same
// logical offer always lands on the same row.
type Offer struct {
	ID                string          `db:"id"`
	Category          Category        `db:"category"`
	CreditValue       decimal.Decimal `db:"credit_value"`
	DownPayment       decimal.Decimal `db:"down_payment"`
	InstallmentCount  int             `db:"installment_count"`  // 0 = unknown
	InstallmentValue  decimal.Decimal `db:"installment_value"`  // 0 = unknown
	AdminFeePercent   decimal.Decimal `db:"admin_fee_percent"`  // 0 = not published
	Administrator     string          `db:"administrator"`
	SourceName        string          `db:"source_name"`
	SourceURL         string          `db:"source_url"`
	GroupCode         string          `db:"group_code"`
	Quota             string          `db:"quota"`
	Description       string          `db:"description"`
	LastSeenAt        time.Time       `db:"last_seen_at"`
}

// RawOffer is the common shape every source adapter emits. Fields are the
// raw site text; normalization happens in exactly one place (Normalize),
// never inside adapters.
type RawOffer struct {
	SourceName string
	SourceURL  string

	CreditText           string // e.g. "R$ 250.000,00"
	DownPaymentText      string
	InstallmentsText     string // combined "186 x R$ 1.255,00" form
	InstallmentCountText string // used when the site splits count and value
	InstallmentValueText string
	AdminFeeText         string
	AdministratorText    string
	CategoryText         string

	GroupCode   string
	Quota       string
	Description string
}

// FilterCriteria is the search input. Pointer fields are optional; a nil
// pointer means "no constraint". Zero Tolerance selects the default band.
type FilterCriteria struct {
	Category            Category `validate:"omitempty,category"`
	CreditValueTarget   *decimal.Decimal
	CreditValueMin      *decimal.Decimal
	CreditValueMax      *decimal.Decimal
	DownPaymentMax      *decimal.Decimal
	InstallmentValueMax *decimal.Decimal
	InstallmentCountMax *int
	Administrator       string
	SourceName          string
	Tolerance           decimal.Decimal
	Page                int `validate:"min=0"`
	PageSize            int `validate:"min=0,max=200"`
}

// SearchResult is one page of matching offers plus filter-wide aggregates.
// Total and ByCategory are computed against the same filter, independent
// of pagination.
type SearchResult struct {
	Offers     []Offer
	Total      int
	ByCategory map[Category]int
	Page       int
	PageSize   int
}

// BracketQuery asks for the nearest neighbors on each side of a target
// credit value. No tolerance band applies here.
type BracketQuery struct {
	Target         decimal.Decimal
	K              int      `validate:"min=0,max=50"`
	Category       Category `validate:"omitempty,category"`
	Administrator  string
	SourceName     string
	DownPaymentMax *decimal.Decimal
}

// BracketResult holds up to K offers strictly above the target (closest
// first, ascending) and up to K strictly below (closest first, descending).
type BracketResult struct {
	Above []Offer
	Below []Offer
}
