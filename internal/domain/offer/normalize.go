package offer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Wpprobot/cartahub/internal/pkg/classify"
	"github.com/Wpprobot/cartahub/internal/pkg/moneytext"
)

// Normalize converts a raw scraped record into a canonical Offer, applying
// the parsing utilities and the classification registry. It is a pure
// function: identical input always yields an identical Offer, including an
// identical ID. LastSeenAt is left zero; the store stamps observation time
// on upsert.
//
// A non-positive credit value is the one hard invariant: such records are
// rejected with ErrValidation and never reach the store.
func Normalize(raw RawOffer) (Offer, error) {
	credit := moneytext.Currency(raw.CreditText)
	if !credit.IsPositive() {
		return Offer{}, fmt.Errorf("%w: non-positive credit value %q from %s",
			ErrValidation, raw.CreditText, raw.SourceName)
	}
	if strings.TrimSpace(raw.SourceName) == "" {
		return Offer{}, fmt.Errorf("%w: missing source name", ErrValidation)
	}

	count, value := installments(raw)

	categoryHint := raw.CategoryText
	if categoryHint == "" {
		categoryHint = raw.Description
	}

	o := Offer{
		Category:         Category(classify.Category(categoryHint)),
		CreditValue:      credit,
		DownPayment:      moneytext.Currency(raw.DownPaymentText),
		InstallmentCount: count,
		InstallmentValue: value,
		AdminFeePercent:  moneytext.Percent(raw.AdminFeeText),
		Administrator:    classify.Administrator(raw.AdministratorText),
		SourceName:       strings.TrimSpace(raw.SourceName),
		SourceURL:        strings.TrimSpace(raw.SourceURL),
		GroupCode:        strings.TrimSpace(raw.GroupCode),
		Quota:            strings.TrimSpace(raw.Quota),
		Description:      strings.TrimSpace(raw.Description),
	}
	o.ID = ComputeID(o)

	return o, nil
}

// installments prefers the split count/value fields when the site provides
// them, falling back to the combined "<N> x <amount>" text. Zero means
// unknown on both axes.
func installments(raw RawOffer) (int, decimal.Decimal) {
	if raw.InstallmentCountText != "" || raw.InstallmentValueText != "" {
		count, err := strconv.Atoi(strings.TrimSpace(raw.InstallmentCountText))
		if err != nil || count < 0 {
			count = 0
		}
		return count, moneytext.Currency(raw.InstallmentValueText)
	}
	return moneytext.Installments(raw.InstallmentsText)
}
