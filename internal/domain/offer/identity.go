package offer

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
)

// idFieldSep delimits fields in the identity encoding. It never occurs in
// the numeric renderings and is stripped from the free-text fields, so the
// encoding stays injective over the identity tuple.
const idFieldSep = "|"

// ComputeID derives the deterministic content hash that serves as the
// offer's primary key. The tuple is (creditValue, administrator,
// sourceName, group, quota, downPayment, installmentCount,
// installmentValue); money fields are rendered with exactly two decimals
// so 90000 and 90000.00 hash identically. No timestamp and no randomness:
// the same logical offer re-observed from the same source always collapses
// to the same row, while the same numbers seen on a different source form
// a distinct row.
func ComputeID(o Offer) string {
	fields := []string{
		o.CreditValue.StringFixed(2),
		clean(o.Administrator),
		clean(o.SourceName),
		clean(o.GroupCode),
		clean(o.Quota),
		o.DownPayment.StringFixed(2),
		strconv.Itoa(o.InstallmentCount),
		o.InstallmentValue.StringFixed(2),
	}

	sum := md5.Sum([]byte(strings.Join(fields, idFieldSep)))
	return hex.EncodeToString(sum[:])
}

func clean(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), idFieldSep, "/")
}
