package services

import (
	"sort"
	"time"

	"marquee/contexts/kiosk-advertising/pricing-engine/domain/entities"

	"github.com/shopspring/decimal"
)

type QuoteLine struct {
	KioskID  string
	Base     decimal.Decimal
	Discount decimal.Decimal
	Final    decimal.Decimal
	Reason   string
}

type Quote struct {
	Lines         []QuoteLine
	TotalBase     decimal.Decimal
	TotalDiscount decimal.Decimal
	TotalFinal    decimal.Decimal
}

// PriceSelection computes per-kiosk and aggregate pricing for an ordered
// kiosk selection. The caller's order is significant: the zero-based
// position of a kiosk decides which discount tier it falls into, so the
// engine never re-sorts the selection. Pure and side-effect free.
//
// Overlapping settings resolve to the first match by ascending MinKiosks;
// ties break by CreatedAt, then SettingID.
func PriceSelection(
	kiosks []entities.Kiosk,
	settings []entities.VolumeDiscountSetting,
	now time.Time,
) Quote {
	ordered := append([]entities.VolumeDiscountSetting(nil), settings...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].MinKiosks != ordered[j].MinKiosks {
			return ordered[i].MinKiosks < ordered[j].MinKiosks
		}
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].SettingID < ordered[j].SettingID
	})

	quote := Quote{
		Lines:         make([]QuoteLine, 0, len(kiosks)),
		TotalBase:     decimal.Zero,
		TotalDiscount: decimal.Zero,
		TotalFinal:    decimal.Zero,
	}

	for position, kiosk := range kiosks {
		line := QuoteLine{
			KioskID:  kiosk.KioskID,
			Base:     kiosk.Price,
			Discount: decimal.Zero,
			Final:    kiosk.Price,
		}
		for _, setting := range ordered {
			if !setting.AppliesAt(position, now) {
				continue
			}
			line.Discount = discountAmount(kiosk.Price, setting)
			line.Final = kiosk.Price.Sub(line.Discount)
			line.Reason = setting.Name
			if line.Reason == "" {
				line.Reason = setting.SettingID
			}
			break
		}
		quote.Lines = append(quote.Lines, line)
		quote.TotalBase = quote.TotalBase.Add(line.Base)
		quote.TotalDiscount = quote.TotalDiscount.Add(line.Discount)
		quote.TotalFinal = quote.TotalFinal.Add(line.Final)
	}
	return quote
}

// discountAmount clamps so the resulting final price is never negative.
func discountAmount(base decimal.Decimal, setting entities.VolumeDiscountSetting) decimal.Decimal {
	var amount decimal.Decimal
	switch setting.DiscountType {
	case entities.DiscountTypePercentage:
		amount = base.Mul(setting.DiscountValue).Div(decimal.NewFromInt(100))
	case entities.DiscountTypeFixedAmount:
		amount = setting.DiscountValue
	default:
		return decimal.Zero
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	if amount.GreaterThan(base) {
		return base
	}
	return amount
}
