package queries

import (
	"context"
	"log/slog"
	"strings"

	"marquee/contexts/kiosk-advertising/pricing-engine/domain/entities"
	"marquee/contexts/kiosk-advertising/pricing-engine/ports"
)

type ListKiosksQuery struct {
	Status       string
	TrafficLevel string
}

type ListKiosksUseCase struct {
	Kiosks ports.KioskRepository
	Logger *slog.Logger
}

func (uc ListKiosksUseCase) Execute(ctx context.Context, query ListKiosksQuery) ([]entities.Kiosk, error) {
	return uc.Kiosks.ListKiosks(ctx, ports.KioskFilter{
		Status:       entities.KioskStatus(strings.TrimSpace(query.Status)),
		TrafficLevel: entities.TrafficLevel(strings.TrimSpace(query.TrafficLevel)),
	})
}

type GetKioskUseCase struct {
	Kiosks ports.KioskRepository
	Logger *slog.Logger
}

func (uc GetKioskUseCase) Execute(ctx context.Context, kioskID string) (entities.Kiosk, error) {
	return uc.Kiosks.GetKiosk(ctx, strings.TrimSpace(kioskID))
}

type ListSettingsUseCase struct {
	Settings ports.SettingRepository
	Logger   *slog.Logger
}

func (uc ListSettingsUseCase) Execute(ctx context.Context, onlyActive bool) ([]entities.VolumeDiscountSetting, error) {
	return uc.Settings.ListSettings(ctx, onlyActive)
}
