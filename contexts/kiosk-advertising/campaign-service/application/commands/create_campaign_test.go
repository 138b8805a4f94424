package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"marquee/contexts/kiosk-advertising/campaign-service/adapters/memory"
	domainerrors "marquee/contexts/kiosk-advertising/campaign-service/domain/errors"
	"marquee/contexts/kiosk-advertising/campaign-service/ports"

	"github.com/shopspring/decimal"
)

type fixedPricer struct {
	total decimal.Decimal
	err   error
	calls int
}

func (p *fixedPricer) PriceSelection(ctx context.Context, kioskIDs []string) (ports.PricingSnapshot, error) {
	p.calls++
	if p.err != nil {
		return ports.PricingSnapshot{}, p.err
	}
	return ports.PricingSnapshot{
		TotalBase:     p.total,
		TotalDiscount: decimal.Zero,
		TotalFinal:    p.total,
	}, nil
}

func newCreateUseCase(store *memory.Store, pricer ports.SelectionPricer) CreateCampaignUseCase {
	return CreateCampaignUseCase{
		Campaigns:      store,
		Idempotency:    store,
		Pricer:         pricer,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 24 * time.Hour,
	}
}

func baseCommand() CreateCampaignCommand {
	return CreateCampaignCommand{
		AdvertiserID:   "adv-1",
		IdempotencyKey: "idem-1",
		Name:           "Spring Launch",
		StartDate:      time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
		Budget:         decimal.NewFromInt(1000),
		KioskIDs:       []string{"K1", "K2"},
	}
}

func TestCreateCampaignPricesSelection(t *testing.T) {
	store := memory.NewStore(nil, nil)
	store.SetNow(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	pricer := &fixedPricer{total: decimal.NewFromInt(280)}
	uc := newCreateUseCase(store, pricer)

	result, err := uc.Execute(context.Background(), baseCommand())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result.Replayed {
		t.Fatal("first call must not be a replay")
	}
	if !result.Campaign.TotalCost.Equal(decimal.NewFromInt(280)) {
		t.Fatalf("total cost must come from the pricing engine, got %s", result.Campaign.TotalCost)
	}
	if result.Campaign.Status != "draft" {
		t.Fatalf("new campaigns start as draft, got %s", result.Campaign.Status)
	}
	if pricer.calls != 1 {
		t.Fatalf("expected one pricing call, got %d", pricer.calls)
	}
}

func TestCreateCampaignIdempotentReplay(t *testing.T) {
	store := memory.NewStore(nil, nil)
	store.SetNow(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	pricer := &fixedPricer{total: decimal.NewFromInt(280)}
	uc := newCreateUseCase(store, pricer)
	ctx := context.Background()

	first, err := uc.Execute(ctx, baseCommand())
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	second, err := uc.Execute(ctx, baseCommand())
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !second.Replayed {
		t.Fatal("identical request with the same key must replay")
	}
	if second.Campaign.CampaignID != first.Campaign.CampaignID {
		t.Fatalf("replay must return the original campaign, got %s and %s",
			first.Campaign.CampaignID, second.Campaign.CampaignID)
	}
	if pricer.calls != 1 {
		t.Fatalf("replay must not re-price, got %d pricing calls", pricer.calls)
	}

	changed := baseCommand()
	changed.Budget = decimal.NewFromInt(5000)
	_, err = uc.Execute(ctx, changed)
	if !errors.Is(err, domainerrors.ErrIdempotencyKeyConflict) {
		t.Fatalf("same key with different payload must conflict, got %v", err)
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	store := memory.NewStore(nil, nil)
	store.SetNow(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	uc := newCreateUseCase(store, &fixedPricer{total: decimal.NewFromInt(100)})
	ctx := context.Background()

	cmd := baseCommand()
	cmd.IdempotencyKey = " "
	if _, err := uc.Execute(ctx, cmd); !errors.Is(err, domainerrors.ErrIdempotencyKeyRequired) {
		t.Fatalf("expected idempotency key required, got %v", err)
	}

	cmd = baseCommand()
	cmd.IdempotencyKey = "idem-dates"
	cmd.EndDate = cmd.StartDate.AddDate(0, 0, -1)
	if _, err := uc.Execute(ctx, cmd); !errors.Is(err, domainerrors.ErrInvalidCampaignDates) {
		t.Fatalf("expected invalid dates, got %v", err)
	}

	cmd = baseCommand()
	cmd.IdempotencyKey = "idem-budget"
	cmd.Budget = decimal.Zero
	if _, err := uc.Execute(ctx, cmd); !errors.Is(err, domainerrors.ErrInvalidCampaignInput) {
		t.Fatalf("expected invalid input for zero budget, got %v", err)
	}

	cmd = baseCommand()
	cmd.IdempotencyKey = "idem-dup"
	cmd.KioskIDs = []string{"K1", "K1"}
	if _, err := uc.Execute(ctx, cmd); !errors.Is(err, domainerrors.ErrInvalidCampaignInput) {
		t.Fatalf("expected invalid input for duplicate kiosks, got %v", err)
	}

	cmd = baseCommand()
	cmd.IdempotencyKey = "idem-empty"
	cmd.KioskIDs = []string{" ", ""}
	if _, err := uc.Execute(ctx, cmd); !errors.Is(err, domainerrors.ErrInvalidCampaignInput) {
		t.Fatalf("expected invalid input for empty selection, got %v", err)
	}
}

func TestCreateCampaignPricingFailureAborts(t *testing.T) {
	store := memory.NewStore(nil, nil)
	store.SetNow(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	pricingErr := errors.New("pricing engine unavailable")
	uc := newCreateUseCase(store, &fixedPricer{err: pricingErr})
	ctx := context.Background()

	if _, err := uc.Execute(ctx, baseCommand()); !errors.Is(err, pricingErr) {
		t.Fatalf("expected pricing error surfaced, got %v", err)
	}

	campaigns, err := store.ListCampaigns(ctx, ports.CampaignFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(campaigns) != 0 {
		t.Fatal("no campaign may be stored when pricing fails")
	}
}
