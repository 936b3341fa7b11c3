// Package moneytext parses Brazilian-formatted money, percentage and
// installment strings as they appear on listing sites ("R$ 250.000,00",
// "186 x 255,00", "18,5%"). All functions are pure and never return an
// error: anything unparseable yields zero values so a single bad cell
// cannot abort extraction of its siblings.
package moneytext

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	installmentsRe = regexp.MustCompile(`(?i)(\d+)\s*x\s*(?:R\$\s*)?([\d.,]+)`)
	numericRe      = regexp.MustCompile(`[\d.,]+`)
)

// Currency extracts a decimal amount from a locale-formatted price string.
// Thousands dots are dropped and the decimal comma becomes a decimal point.
// Returns zero on empty or garbage input.
func Currency(text string) decimal.Decimal {
	match := numericRe.FindString(text)
	if match == "" {
		return decimal.Zero
	}

	normalized := strings.ReplaceAll(match, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")

	d, err := decimal.NewFromString(normalized)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Installments matches the "<N> x <amount>" pattern used for remaining
// installment plans. Returns (0, 0) when the pattern is absent.
func Installments(text string) (int, decimal.Decimal) {
	m := installmentsRe.FindStringSubmatch(text)
	if m == nil {
		return 0, decimal.Zero
	}

	count, err := strconv.Atoi(m[1])
	if err != nil || count < 0 {
		return 0, decimal.Zero
	}

	value := Currency(m[2])
	return count, value
}

// Percent parses a percentage like "18,5%" or "0.25%". Returns zero when
// the input has no usable number.
func Percent(text string) decimal.Decimal {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, "%", ""))
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
