package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

// VolumeDiscountSetting is administrator-managed, read-only configuration
// for the pricing engine. MinKiosks is one-based: a setting with
// MinKiosks=2 starts applying at the second kiosk of a selection.
// MaxKiosks is open-ended when nil.
type VolumeDiscountSetting struct {
	SettingID     string
	Name          string
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	MinKiosks     int
	MaxKiosks     *int
	IsActive      bool
	ValidFrom     *time.Time
	ValidUntil    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func IsSupportedDiscountType(value DiscountType) bool {
	switch value {
	case DiscountTypePercentage, DiscountTypeFixedAmount:
		return true
	default:
		return false
	}
}

// AppliesAt reports whether the setting covers the zero-based selection
// position at the given instant.
func (s VolumeDiscountSetting) AppliesAt(position int, now time.Time) bool {
	if !s.IsActive {
		return false
	}
	if s.ValidFrom != nil && now.UTC().Before(s.ValidFrom.UTC()) {
		return false
	}
	if s.ValidUntil != nil && now.UTC().After(s.ValidUntil.UTC()) {
		return false
	}
	if position < s.MinKiosks-1 {
		return false
	}
	if s.MaxKiosks != nil && position >= *s.MaxKiosks {
		return false
	}
	return true
}

// ValidateLimits checks the structural invariants of a setting.
func (s VolumeDiscountSetting) ValidateLimits() bool {
	if !IsSupportedDiscountType(s.DiscountType) {
		return false
	}
	if s.DiscountValue.IsNegative() || s.DiscountValue.IsZero() {
		return false
	}
	if s.DiscountType == DiscountTypePercentage && s.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return false
	}
	if s.MinKiosks < 1 {
		return false
	}
	// MaxKiosks == MinKiosks covers exactly one selection position.
	if s.MaxKiosks != nil && *s.MaxKiosks < s.MinKiosks {
		return false
	}
	if s.ValidFrom != nil && s.ValidUntil != nil && s.ValidUntil.Before(*s.ValidFrom) {
		return false
	}
	return true
}
