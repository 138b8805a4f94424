package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "marquee/contexts/kiosk-advertising/pricing-engine/application"
	"marquee/contexts/kiosk-advertising/pricing-engine/domain/entities"
	domainerrors "marquee/contexts/kiosk-advertising/pricing-engine/domain/errors"
	"marquee/contexts/kiosk-advertising/pricing-engine/ports"

	"github.com/shopspring/decimal"
)

type CreateSettingCommand struct {
	Name          string
	DiscountType  string
	DiscountValue decimal.Decimal
	MinKiosks     int
	MaxKiosks     *int
	IsActive      bool
	ValidFrom     *time.Time
	ValidUntil    *time.Time
}

type CreateSettingUseCase struct {
	Settings ports.SettingRepository
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc CreateSettingUseCase) Execute(ctx context.Context, cmd CreateSettingCommand) (entities.VolumeDiscountSetting, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.Clock.Now().UTC()

	settingID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.VolumeDiscountSetting{}, err
	}

	setting := entities.VolumeDiscountSetting{
		SettingID:     settingID,
		Name:          strings.TrimSpace(cmd.Name),
		DiscountType:  entities.DiscountType(strings.TrimSpace(cmd.DiscountType)),
		DiscountValue: cmd.DiscountValue,
		MinKiosks:     cmd.MinKiosks,
		MaxKiosks:     cmd.MaxKiosks,
		IsActive:      cmd.IsActive,
		ValidFrom:     cmd.ValidFrom,
		ValidUntil:    cmd.ValidUntil,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if !setting.ValidateLimits() {
		return entities.VolumeDiscountSetting{}, domainerrors.ErrInvalidSettingInput
	}

	if err := uc.Settings.CreateSetting(ctx, setting); err != nil {
		return entities.VolumeDiscountSetting{}, err
	}

	logger.Info("discount setting created",
		"event", "discount_setting_created",
		"module", "kiosk-advertising/pricing-engine",
		"layer", "application",
		"setting_id", setting.SettingID,
		"discount_type", string(setting.DiscountType),
		"min_kiosks", setting.MinKiosks,
	)
	return setting, nil
}

type UpdateSettingCommand struct {
	SettingID     string
	Name          *string
	DiscountType  *string
	DiscountValue *decimal.Decimal
	MinKiosks     *int
	MaxKiosks     *int
	ClearMax      bool
	IsActive      *bool
	ValidFrom     *time.Time
	ValidUntil    *time.Time
}

type UpdateSettingUseCase struct {
	Settings ports.SettingRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (uc UpdateSettingUseCase) Execute(ctx context.Context, cmd UpdateSettingCommand) (entities.VolumeDiscountSetting, error) {
	logger := application.ResolveLogger(uc.Logger)
	setting, err := uc.Settings.GetSetting(ctx, strings.TrimSpace(cmd.SettingID))
	if err != nil {
		return entities.VolumeDiscountSetting{}, err
	}

	if cmd.Name != nil {
		setting.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.DiscountType != nil {
		setting.DiscountType = entities.DiscountType(strings.TrimSpace(*cmd.DiscountType))
	}
	if cmd.DiscountValue != nil {
		setting.DiscountValue = *cmd.DiscountValue
	}
	if cmd.MinKiosks != nil {
		setting.MinKiosks = *cmd.MinKiosks
	}
	if cmd.ClearMax {
		setting.MaxKiosks = nil
	} else if cmd.MaxKiosks != nil {
		setting.MaxKiosks = cmd.MaxKiosks
	}
	if cmd.IsActive != nil {
		setting.IsActive = *cmd.IsActive
	}
	if cmd.ValidFrom != nil {
		setting.ValidFrom = cmd.ValidFrom
	}
	if cmd.ValidUntil != nil {
		setting.ValidUntil = cmd.ValidUntil
	}
	setting.UpdatedAt = uc.Clock.Now().UTC()

	if !setting.ValidateLimits() {
		return entities.VolumeDiscountSetting{}, domainerrors.ErrInvalidSettingInput
	}
	if err := uc.Settings.UpdateSetting(ctx, setting); err != nil {
		return entities.VolumeDiscountSetting{}, err
	}

	logger.Info("discount setting updated",
		"event", "discount_setting_updated",
		"module", "kiosk-advertising/pricing-engine",
		"layer", "application",
		"setting_id", setting.SettingID,
		"is_active", setting.IsActive,
	)
	return setting, nil
}
