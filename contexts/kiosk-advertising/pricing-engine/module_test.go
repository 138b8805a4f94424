package pricingengine

import (
	"context"
	"errors"
	"testing"
	"time"

	"marquee/contexts/kiosk-advertising/pricing-engine/application/queries"
	"marquee/contexts/kiosk-advertising/pricing-engine/domain/entities"
	domainerrors "marquee/contexts/kiosk-advertising/pricing-engine/domain/errors"
	httptransport "marquee/contexts/kiosk-advertising/pricing-engine/transport/http"

	"github.com/shopspring/decimal"
)

func seededModule(t *testing.T) Module {
	t.Helper()
	kiosks := []entities.Kiosk{
		{KioskID: "K1", Name: "Union Station", Price: decimal.NewFromInt(100), Status: entities.KioskStatusActive, TrafficLevel: entities.TrafficLevelHigh},
		{KioskID: "K2", Name: "Airport Hall B", Price: decimal.NewFromInt(100), Status: entities.KioskStatusActive, TrafficLevel: entities.TrafficLevelMedium},
		{KioskID: "K3", Name: "Market Square", Price: decimal.NewFromInt(100), Status: entities.KioskStatusActive, TrafficLevel: entities.TrafficLevelLow},
	}
	settings := []entities.VolumeDiscountSetting{{
		SettingID:     "s-bulk",
		Name:          "bulk 10%",
		DiscountType:  entities.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		MinKiosks:     2,
		IsActive:      true,
	}}
	module := NewInMemoryModule(kiosks, settings, nil)
	module.Store.SetNow(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	return module
}

func TestQuoteHandlerPricesOrderedSelection(t *testing.T) {
	module := seededModule(t)
	ctx := context.Background()

	resp, err := module.Handler.QuoteHandler(ctx, httptransport.QuoteRequest{
		KioskIDs: []string{"K1", "K2", "K3"},
	})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !resp.TotalFinal.Equal(decimal.NewFromInt(280)) {
		t.Fatalf("expected total final 280, got %s", resp.TotalFinal)
	}
	if resp.Lines[0].KioskID != "K1" || !resp.Lines[0].Discount.IsZero() {
		t.Fatalf("first kiosk should be undiscounted, got %+v", resp.Lines[0])
	}
}

func TestQuoteSelectionRejectsDuplicatesAndEmpty(t *testing.T) {
	module := seededModule(t)
	ctx := context.Background()

	_, err := module.Quote.Execute(ctx, queries.QuoteSelectionQuery{KioskIDs: []string{"K1", "K1"}})
	if !errors.Is(err, domainerrors.ErrDuplicateKioskSelected) {
		t.Fatalf("expected duplicate selection error, got %v", err)
	}

	_, err = module.Quote.Execute(ctx, queries.QuoteSelectionQuery{KioskIDs: []string{"  ", ""}})
	if !errors.Is(err, domainerrors.ErrEmptyKioskSelection) {
		t.Fatalf("expected empty selection error, got %v", err)
	}

	_, err = module.Quote.Execute(ctx, queries.QuoteSelectionQuery{KioskIDs: []string{"K1", "K9"}})
	if !errors.Is(err, domainerrors.ErrKioskNotFound) {
		t.Fatalf("expected kiosk not found for unknown id, got %v", err)
	}
}

func TestRegisterKioskDefaultsAndGet(t *testing.T) {
	module := seededModule(t)
	ctx := context.Background()

	created, err := module.Handler.RegisterKioskHandler(ctx, httptransport.RegisterKioskRequest{
		Name:     "Harbor Front",
		Location: "Pier 3",
		Price:    decimal.NewFromInt(75),
	})
	if err != nil {
		t.Fatalf("register kiosk failed: %v", err)
	}
	if created.Data.Status != string(entities.KioskStatusActive) {
		t.Fatalf("expected default status active, got %s", created.Data.Status)
	}
	if created.Data.TrafficLevel != string(entities.TrafficLevelMedium) {
		t.Fatalf("expected default traffic level medium, got %s", created.Data.TrafficLevel)
	}

	fetched, err := module.Handler.GetKioskHandler(ctx, created.Data.KioskID)
	if err != nil {
		t.Fatalf("get kiosk failed: %v", err)
	}
	if fetched.Data.Name != "Harbor Front" {
		t.Fatalf("expected fetched kiosk name Harbor Front, got %s", fetched.Data.Name)
	}
}

func TestCreateSettingValidation(t *testing.T) {
	module := seededModule(t)
	ctx := context.Background()

	_, err := module.Handler.CreateSettingHandler(ctx, httptransport.CreateSettingRequest{
		Name:          "broken",
		DiscountType:  "percentage",
		DiscountValue: decimal.NewFromInt(150),
		MinKiosks:     2,
		IsActive:      true,
	})
	if !errors.Is(err, domainerrors.ErrInvalidSettingInput) {
		t.Fatalf("expected invalid setting input for >100%%, got %v", err)
	}

	max := 1
	_, err = module.Handler.CreateSettingHandler(ctx, httptransport.CreateSettingRequest{
		Name:          "inverted range",
		DiscountType:  "fixed_amount",
		DiscountValue: decimal.NewFromInt(5),
		MinKiosks:     3,
		MaxKiosks:     &max,
		IsActive:      true,
	})
	if !errors.Is(err, domainerrors.ErrInvalidSettingInput) {
		t.Fatalf("expected invalid setting input for max < min, got %v", err)
	}
}

func TestUpdateSettingPatchesFields(t *testing.T) {
	module := seededModule(t)
	ctx := context.Background()

	created, err := module.Handler.CreateSettingHandler(ctx, httptransport.CreateSettingRequest{
		Name:          "tier",
		DiscountType:  "percentage",
		DiscountValue: decimal.NewFromInt(5),
		MinKiosks:     3,
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("create setting failed: %v", err)
	}

	newValue := decimal.NewFromInt(8)
	inactive := false
	updated, err := module.Handler.UpdateSettingHandler(ctx, created.Data.SettingID, httptransport.UpdateSettingRequest{
		DiscountValue: &newValue,
		IsActive:      &inactive,
	})
	if err != nil {
		t.Fatalf("update setting failed: %v", err)
	}
	if !updated.Data.DiscountValue.Equal(newValue) {
		t.Fatalf("expected discount value 8, got %s", updated.Data.DiscountValue)
	}
	if updated.Data.IsActive {
		t.Fatal("expected setting deactivated")
	}
	if updated.Data.Name != "tier" {
		t.Fatalf("unset fields must keep old values, got name %s", updated.Data.Name)
	}

	_, err = module.Handler.UpdateSettingHandler(ctx, "missing", httptransport.UpdateSettingRequest{})
	if !errors.Is(err, domainerrors.ErrSettingNotFound) {
		t.Fatalf("expected setting not found, got %v", err)
	}
}

func TestListSettingsOnlyActive(t *testing.T) {
	module := seededModule(t)
	ctx := context.Background()

	inactive := false
	if _, err := module.Handler.UpdateSettingHandler(ctx, "s-bulk", httptransport.UpdateSettingRequest{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	all, err := module.Handler.ListSettingsHandler(ctx, false)
	if err != nil {
		t.Fatalf("list all settings failed: %v", err)
	}
	if len(all.Data) != 1 {
		t.Fatalf("expected 1 setting overall, got %d", len(all.Data))
	}

	active, err := module.Handler.ListSettingsHandler(ctx, true)
	if err != nil {
		t.Fatalf("list active settings failed: %v", err)
	}
	if len(active.Data) != 0 {
		t.Fatalf("expected no active settings, got %d", len(active.Data))
	}
}
