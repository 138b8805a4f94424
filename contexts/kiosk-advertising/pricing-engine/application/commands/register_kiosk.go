package commands

import (
	"context"
	"log/slog"
	"strings"

	application "marquee/contexts/kiosk-advertising/pricing-engine/application"
	"marquee/contexts/kiosk-advertising/pricing-engine/domain/entities"
	domainerrors "marquee/contexts/kiosk-advertising/pricing-engine/domain/errors"
	"marquee/contexts/kiosk-advertising/pricing-engine/ports"

	"github.com/shopspring/decimal"
)

type RegisterKioskCommand struct {
	Name         string
	Location     string
	Price        decimal.Decimal
	TrafficLevel string
	Status       string
}

type RegisterKioskUseCase struct {
	Kiosks ports.KioskRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc RegisterKioskUseCase) Execute(ctx context.Context, cmd RegisterKioskCommand) (entities.Kiosk, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.Clock.Now().UTC()

	kioskID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Kiosk{}, err
	}

	kiosk := entities.Kiosk{
		KioskID:      kioskID,
		Name:         strings.TrimSpace(cmd.Name),
		Location:     strings.TrimSpace(cmd.Location),
		Price:        cmd.Price,
		TrafficLevel: entities.TrafficLevel(strings.TrimSpace(cmd.TrafficLevel)),
		Status:       entities.KioskStatus(strings.TrimSpace(cmd.Status)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if kiosk.Status == "" {
		kiosk.Status = entities.KioskStatusActive
	}
	if kiosk.TrafficLevel == "" {
		kiosk.TrafficLevel = entities.TrafficLevelMedium
	}
	if kiosk.Name == "" ||
		kiosk.Price.IsNegative() || kiosk.Price.IsZero() ||
		!entities.IsSupportedKioskStatus(kiosk.Status) ||
		!entities.IsSupportedTrafficLevel(kiosk.TrafficLevel) {
		return entities.Kiosk{}, domainerrors.ErrInvalidKioskInput
	}

	if err := uc.Kiosks.CreateKiosk(ctx, kiosk); err != nil {
		return entities.Kiosk{}, err
	}

	logger.Info("kiosk registered",
		"event", "kiosk_registered",
		"module", "kiosk-advertising/pricing-engine",
		"layer", "application",
		"kiosk_id", kiosk.KioskID,
		"status", string(kiosk.Status),
	)
	return kiosk, nil
}
