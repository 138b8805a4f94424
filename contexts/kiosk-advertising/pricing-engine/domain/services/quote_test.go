package services

import (
	"testing"
	"time"

	"marquee/contexts/kiosk-advertising/pricing-engine/domain/entities"

	"github.com/shopspring/decimal"
)

func testKiosk(id string, price int64) entities.Kiosk {
	return entities.Kiosk{
		KioskID: id,
		Name:    id,
		Price:   decimal.NewFromInt(price),
		Status:  entities.KioskStatusActive,
	}
}

func TestPriceSelectionPercentageTier(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	kiosks := []entities.Kiosk{testKiosk("K1", 100), testKiosk("K2", 100), testKiosk("K3", 100)}
	settings := []entities.VolumeDiscountSetting{{
		SettingID:     "s-1",
		Name:          "bulk 10%",
		DiscountType:  entities.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		MinKiosks:     2,
		IsActive:      true,
	}}

	quote := PriceSelection(kiosks, settings, now)
	if len(quote.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(quote.Lines))
	}
	if !quote.Lines[0].Final.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("first kiosk should keep base price, got %s", quote.Lines[0].Final)
	}
	if !quote.Lines[1].Final.Equal(decimal.NewFromInt(90)) || !quote.Lines[2].Final.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("kiosks past the tier threshold should pay 90, got %s and %s", quote.Lines[1].Final, quote.Lines[2].Final)
	}
	if !quote.TotalBase.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("total base should be 300, got %s", quote.TotalBase)
	}
	if !quote.TotalDiscount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("total discount should be 20, got %s", quote.TotalDiscount)
	}
	if !quote.TotalFinal.Equal(decimal.NewFromInt(280)) {
		t.Fatalf("total final should be 280, got %s", quote.TotalFinal)
	}
}

func TestPriceSelectionBoundedFixedTier(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	kiosks := []entities.Kiosk{testKiosk("K1", 100), testKiosk("K2", 100), testKiosk("K3", 100)}
	max := 2
	settings := []entities.VolumeDiscountSetting{{
		SettingID:     "s-1",
		Name:          "second kiosk deal",
		DiscountType:  entities.DiscountTypeFixedAmount,
		DiscountValue: decimal.NewFromInt(15),
		MinKiosks:     2,
		MaxKiosks:     &max,
		IsActive:      true,
	}}

	quote := PriceSelection(kiosks, settings, now)
	if !quote.Lines[0].Discount.IsZero() || !quote.Lines[2].Discount.IsZero() {
		t.Fatalf("only the second kiosk falls in the tier, got discounts %s and %s",
			quote.Lines[0].Discount, quote.Lines[2].Discount)
	}
	if !quote.Lines[1].Final.Equal(decimal.NewFromInt(85)) {
		t.Fatalf("second kiosk should pay 85, got %s", quote.Lines[1].Final)
	}
}

func TestPriceSelectionExpiredSettingIgnored(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	kiosks := []entities.Kiosk{testKiosk("K1", 100), testKiosk("K2", 100)}
	settings := []entities.VolumeDiscountSetting{{
		SettingID:     "s-expired",
		DiscountType:  entities.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(50),
		MinKiosks:     1,
		IsActive:      true,
		ValidUntil:    &past,
	}}

	quote := PriceSelection(kiosks, settings, now)
	if !quote.TotalDiscount.IsZero() {
		t.Fatalf("expired setting must never apply, got discount %s", quote.TotalDiscount)
	}
	if !quote.TotalFinal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("total final should be undiscounted 200, got %s", quote.TotalFinal)
	}
}

func TestPriceSelectionFixedDiscountClampsToBase(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	kiosks := []entities.Kiosk{testKiosk("K1", 10), testKiosk("K2", 10)}
	settings := []entities.VolumeDiscountSetting{{
		SettingID:     "s-big",
		DiscountType:  entities.DiscountTypeFixedAmount,
		DiscountValue: decimal.NewFromInt(50),
		MinKiosks:     1,
		IsActive:      true,
	}}

	quote := PriceSelection(kiosks, settings, now)
	for i, line := range quote.Lines {
		if line.Final.IsNegative() {
			t.Fatalf("line %d final went negative: %s", i, line.Final)
		}
		if !line.Final.IsZero() {
			t.Fatalf("line %d should clamp to zero, got %s", i, line.Final)
		}
	}
}

func TestPriceSelectionFirstMatchByAscendingMinKiosks(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	kiosks := []entities.Kiosk{testKiosk("K1", 100), testKiosk("K2", 100), testKiosk("K3", 100)}
	// Both settings match position 2; the lower min_kiosks wins even
	// though it is listed last.
	settings := []entities.VolumeDiscountSetting{
		{
			SettingID:     "s-deep",
			Name:          "deep",
			DiscountType:  entities.DiscountTypePercentage,
			DiscountValue: decimal.NewFromInt(30),
			MinKiosks:     3,
			IsActive:      true,
		},
		{
			SettingID:     "s-shallow",
			Name:          "shallow",
			DiscountType:  entities.DiscountTypePercentage,
			DiscountValue: decimal.NewFromInt(10),
			MinKiosks:     2,
			IsActive:      true,
		},
	}

	quote := PriceSelection(kiosks, settings, now)
	if quote.Lines[2].Reason != "shallow" {
		t.Fatalf("lowest min_kiosks must win, got %q", quote.Lines[2].Reason)
	}
	if !quote.Lines[2].Discount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected 10 discount from shallow setting, got %s", quote.Lines[2].Discount)
	}
}

func TestPriceSelectionTieBreaksByCreatedAtThenID(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	kiosks := []entities.Kiosk{testKiosk("K1", 100), testKiosk("K2", 100)}
	earlier := now.Add(-48 * time.Hour)
	later := now.Add(-24 * time.Hour)
	settings := []entities.VolumeDiscountSetting{
		{
			SettingID:     "s-b",
			Name:          "newer",
			DiscountType:  entities.DiscountTypePercentage,
			DiscountValue: decimal.NewFromInt(20),
			MinKiosks:     2,
			IsActive:      true,
			CreatedAt:     later,
		},
		{
			SettingID:     "s-a",
			Name:          "older",
			DiscountType:  entities.DiscountTypePercentage,
			DiscountValue: decimal.NewFromInt(5),
			MinKiosks:     2,
			IsActive:      true,
			CreatedAt:     earlier,
		},
	}

	quote := PriceSelection(kiosks, settings, now)
	if quote.Lines[1].Reason != "older" {
		t.Fatalf("earlier created setting must win the tie, got %q", quote.Lines[1].Reason)
	}

	// Identical CreatedAt falls back to SettingID order.
	settings[0].CreatedAt = earlier
	quote = PriceSelection(kiosks, settings, now)
	if quote.Lines[1].Reason != "older" {
		t.Fatalf("lexically smaller setting id must win the tie, got %q", quote.Lines[1].Reason)
	}
}

func TestPriceSelectionPreservesSelectionOrder(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	kiosks := []entities.Kiosk{testKiosk("K3", 30), testKiosk("K1", 10), testKiosk("K2", 20)}

	quote := PriceSelection(kiosks, nil, now)
	want := []string{"K3", "K1", "K2"}
	for i, line := range quote.Lines {
		if line.KioskID != want[i] {
			t.Fatalf("selection order must be preserved, line %d is %s", i, line.KioskID)
		}
	}
}
