package offer_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Wpprobot/cartahub/internal/domain/offer"
)

func rawVehicle() offer.RawOffer {
	return offer.RawOffer{
		SourceName:        "portal-do-consorcio",
		SourceURL:         "https://portal.example/carta/42",
		CreditText:        "R$ 90.000,00",
		DownPaymentText:   "R$ 25.000,00",
		InstallmentsText:  "72 x R$ 1.850,30",
		AdminFeeText:      "18,5%",
		AdministratorText: "EMBRACON ADM",
		CategoryText:      "carro",
		GroupCode:         "1234",
		Quota:             "56",
	}
}

func TestNormalize(t *testing.T) {
	o, err := offer.Normalize(rawVehicle())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if !o.CreditValue.Equal(decimal.NewFromInt(90000)) {
		t.Errorf("CreditValue = %s, want 90000", o.CreditValue)
	}
	if !o.DownPayment.Equal(decimal.NewFromInt(25000)) {
		t.Errorf("DownPayment = %s, want 25000", o.DownPayment)
	}
	if o.InstallmentCount != 72 {
		t.Errorf("InstallmentCount = %d, want 72", o.InstallmentCount)
	}
	if !o.InstallmentValue.Equal(decimal.RequireFromString("1850.30")) {
		t.Errorf("InstallmentValue = %s, want 1850.30", o.InstallmentValue)
	}
	if !o.AdminFeePercent.Equal(decimal.RequireFromString("18.5")) {
		t.Errorf("AdminFeePercent = %s, want 18.5", o.AdminFeePercent)
	}
	if o.Category != offer.CategoryVehicle {
		t.Errorf("Category = %s, want vehicle", o.Category)
	}
	if o.Administrator != "Embracon" {
		t.Errorf("Administrator = %q, want Embracon", o.Administrator)
	}
	if o.ID == "" {
		t.Error("ID must be set by normalization")
	}
	if !o.LastSeenAt.IsZero() {
		t.Error("LastSeenAt must stay zero; the store stamps it")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	a, err := offer.Normalize(rawVehicle())
	if err != nil {
		t.Fatal(err)
	}
	b, err := offer.Normalize(rawVehicle())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical raw input produced different offers:\n%+v\n%+v", a, b)
	}
	if a.ID != b.ID {
		t.Fatalf("ids differ: %s vs %s", a.ID, b.ID)
	}
}

func TestNormalizeRejectsNonPositiveCredit(t *testing.T) {
	for _, credit := range []string{"", "R$ 0,00", "garbage"} {
		raw := rawVehicle()
		raw.CreditText = credit
		if _, err := offer.Normalize(raw); !errors.Is(err, offer.ErrValidation) {
			t.Errorf("CreditText=%q: err = %v, want ErrValidation", credit, err)
		}
	}
}

func TestNormalizeSplitInstallmentFields(t *testing.T) {
	raw := rawVehicle()
	raw.InstallmentsText = ""
	raw.InstallmentCountText = "120"
	raw.InstallmentValueText = "R$ 980,00"

	o, err := offer.Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	if o.InstallmentCount != 120 || !o.InstallmentValue.Equal(decimal.NewFromInt(980)) {
		t.Errorf("installments = (%d, %s), want (120, 980)", o.InstallmentCount, o.InstallmentValue)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	raw := offer.RawOffer{
		SourceName: "bolsa-de-cartas",
		CreditText: "R$ 120.000,00",
	}
	o, err := offer.Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	if o.InstallmentCount != 0 || !o.InstallmentValue.IsZero() {
		t.Error("absent installments should normalize to unknown (0, 0)")
	}
	if o.Administrator != "Other" {
		t.Errorf("Administrator = %q, want Other", o.Administrator)
	}
	if o.Category != offer.CategoryVehicle {
		t.Errorf("Category = %s, want the vehicle default", o.Category)
	}
}
