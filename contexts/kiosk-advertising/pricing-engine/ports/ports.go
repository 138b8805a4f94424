package ports

import (
	"context"
	"time"

	"marquee/contexts/kiosk-advertising/pricing-engine/domain/entities"
)

type KioskFilter struct {
	Status       entities.KioskStatus
	TrafficLevel entities.TrafficLevel
}

type KioskRepository interface {
	CreateKiosk(ctx context.Context, kiosk entities.Kiosk) error
	GetKiosk(ctx context.Context, kioskID string) (entities.Kiosk, error)
	// GetKiosksByIDs preserves the order of the requested ids and fails
	// with ErrKioskNotFound when any id is unknown.
	GetKiosksByIDs(ctx context.Context, kioskIDs []string) ([]entities.Kiosk, error)
	ListKiosks(ctx context.Context, filter KioskFilter) ([]entities.Kiosk, error)
}

type SettingRepository interface {
	CreateSetting(ctx context.Context, setting entities.VolumeDiscountSetting) error
	UpdateSetting(ctx context.Context, setting entities.VolumeDiscountSetting) error
	GetSetting(ctx context.Context, settingID string) (entities.VolumeDiscountSetting, error)
	ListSettings(ctx context.Context, onlyActive bool) ([]entities.VolumeDiscountSetting, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
