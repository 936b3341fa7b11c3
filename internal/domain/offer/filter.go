package offer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultTolerance widens a target credit value into a practical band when
// the caller gives no explicit tolerance.
var DefaultTolerance = decimal.NewFromInt(10000)

// DefaultPageSize bounds result pages when the caller gives none.
const DefaultPageSize = 20

// creditBand resolves the credit value window for a filter. A target turns
// into [target-tol, target+tol]; an explicit min/max range is widened
// additively by the tolerance on both ends. Nil means unbounded on that side.
func creditBand(c FilterCriteria) (lo, hi *decimal.Decimal) {
	tol := c.Tolerance
	if tol.IsZero() {
		tol = DefaultTolerance
	}

	if c.CreditValueTarget != nil {
		l := c.CreditValueTarget.Sub(tol)
		h := c.CreditValueTarget.Add(tol)
		return &l, &h
	}
	if c.CreditValueMin != nil {
		l := c.CreditValueMin.Sub(tol)
		lo = &l
	}
	if c.CreditValueMax != nil {
		h := c.CreditValueMax.Add(tol)
		hi = &h
	}
	return lo, hi
}

// buildFilter compiles a FilterCriteria into a conjunctive WHERE clause and
// its positional arguments. Unknown installment data (stored as zero) is
// never excluded by a max filter. Kept free of database handles so the
// query semantics are testable on their own.
func buildFilter(c FilterCriteria) (string, []interface{}) {
	var conds []string
	var args []interface{}

	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if c.Category != "" {
		conds = append(conds, "category = "+next(string(c.Category)))
	}

	lo, hi := creditBand(c)
	if lo != nil {
		conds = append(conds, "credit_value >= "+next(*lo))
	}
	if hi != nil {
		conds = append(conds, "credit_value <= "+next(*hi))
	}

	if c.DownPaymentMax != nil {
		conds = append(conds, "down_payment <= "+next(*c.DownPaymentMax))
	}
	if c.InstallmentValueMax != nil {
		p := next(*c.InstallmentValueMax)
		conds = append(conds, "(installment_value <= "+p+" OR installment_value = 0)")
	}
	if c.InstallmentCountMax != nil {
		p := next(*c.InstallmentCountMax)
		conds = append(conds, "(installment_count <= "+p+" OR installment_count = 0)")
	}
	if c.Administrator != "" {
		conds = append(conds, "administrator = "+next(c.Administrator))
	}
	if c.SourceName != "" {
		conds = append(conds, "source_name = "+next(c.SourceName))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// bracketFilter compiles the optional side filters of a BracketQuery plus
// the strict credit comparison for one side. op is ">" or "<".
func bracketFilter(q BracketQuery, op string) (string, []interface{}) {
	var conds []string
	var args []interface{}

	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	conds = append(conds, "credit_value "+op+" "+next(q.Target))

	if q.Category != "" {
		conds = append(conds, "category = "+next(string(q.Category)))
	}
	if q.Administrator != "" {
		conds = append(conds, "administrator = "+next(q.Administrator))
	}
	if q.SourceName != "" {
		conds = append(conds, "source_name = "+next(q.SourceName))
	}
	if q.DownPaymentMax != nil {
		conds = append(conds, "down_payment <= "+next(*q.DownPaymentMax))
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}
