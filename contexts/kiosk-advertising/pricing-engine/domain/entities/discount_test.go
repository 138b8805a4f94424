package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validSetting() VolumeDiscountSetting {
	return VolumeDiscountSetting{
		SettingID:     "s-1",
		Name:          "bulk",
		DiscountType:  DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		MinKiosks:     2,
		IsActive:      true,
	}
}

func TestValidateLimits(t *testing.T) {
	if !validSetting().ValidateLimits() {
		t.Fatal("baseline setting should validate")
	}

	s := validSetting()
	s.DiscountType = "raffle"
	if s.ValidateLimits() {
		t.Fatal("unknown discount type should fail")
	}

	s = validSetting()
	s.DiscountValue = decimal.Zero
	if s.ValidateLimits() {
		t.Fatal("zero discount value should fail")
	}

	s = validSetting()
	s.DiscountValue = decimal.NewFromInt(101)
	if s.ValidateLimits() {
		t.Fatal("percentage above 100 should fail")
	}

	s = validSetting()
	s.DiscountType = DiscountTypeFixedAmount
	s.DiscountValue = decimal.NewFromInt(500)
	if !s.ValidateLimits() {
		t.Fatal("fixed amounts have no 100 ceiling")
	}

	s = validSetting()
	s.MinKiosks = 0
	if s.ValidateLimits() {
		t.Fatal("min kiosks below 1 should fail")
	}

	s = validSetting()
	below := 1
	s.MaxKiosks = &below
	if s.ValidateLimits() {
		t.Fatal("max below min should fail")
	}

	s = validSetting()
	equal := 2
	s.MaxKiosks = &equal
	if !s.ValidateLimits() {
		t.Fatal("max equal to min covers one position and is legal")
	}

	s = validSetting()
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	until := from.Add(-time.Hour)
	s.ValidFrom = &from
	s.ValidUntil = &until
	if s.ValidateLimits() {
		t.Fatal("validity window ending before it starts should fail")
	}
}

func TestAppliesAt(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	s := validSetting()
	if s.AppliesAt(0, now) {
		t.Fatal("position 0 is below min_kiosks=2")
	}
	if !s.AppliesAt(1, now) || !s.AppliesAt(5, now) {
		t.Fatal("positions at and past the threshold should apply")
	}

	s.IsActive = false
	if s.AppliesAt(1, now) {
		t.Fatal("inactive setting never applies")
	}

	s = validSetting()
	max := 3
	s.MaxKiosks = &max
	if !s.AppliesAt(2, now) {
		t.Fatal("position 2 is inside [min-1, max)")
	}
	if s.AppliesAt(3, now) {
		t.Fatal("position equal to max is outside the range")
	}

	s = validSetting()
	future := now.Add(time.Hour)
	s.ValidFrom = &future
	if s.AppliesAt(1, now) {
		t.Fatal("setting not yet valid should not apply")
	}
}
