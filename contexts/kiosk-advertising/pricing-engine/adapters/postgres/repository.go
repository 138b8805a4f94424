package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"marquee/contexts/kiosk-advertising/pricing-engine/domain/entities"
	domainerrors "marquee/contexts/kiosk-advertising/pricing-engine/domain/errors"
	"marquee/contexts/kiosk-advertising/pricing-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateKiosk(ctx context.Context, kiosk entities.Kiosk) error {
	row := kioskModelFromEntity(kiosk)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidKioskInput
		}
		return err
	}
	return nil
}

func (r *Repository) GetKiosk(ctx context.Context, kioskID string) (entities.Kiosk, error) {
	var row kioskModel
	err := r.db.WithContext(ctx).
		Where("kiosk_id = ?", strings.TrimSpace(kioskID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Kiosk{}, domainerrors.ErrKioskNotFound
		}
		return entities.Kiosk{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetKiosksByIDs(ctx context.Context, kioskIDs []string) ([]entities.Kiosk, error) {
	ids := make([]string, 0, len(kioskIDs))
	for _, id := range kioskIDs {
		ids = append(ids, strings.TrimSpace(id))
	}

	var rows []kioskModel
	if err := r.db.WithContext(ctx).
		Where("kiosk_id IN ?", ids).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	byID := make(map[string]kioskModel, len(rows))
	for _, row := range rows {
		byID[row.KioskID] = row
	}

	// Selection order is significant to pricing, so rebuild it here.
	items := make([]entities.Kiosk, 0, len(ids))
	for _, id := range ids {
		row, exists := byID[id]
		if !exists {
			return nil, domainerrors.ErrKioskNotFound
		}
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListKiosks(ctx context.Context, filter ports.KioskFilter) ([]entities.Kiosk, error) {
	tx := r.db.WithContext(ctx).Model(&kioskModel{})
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if filter.TrafficLevel != "" {
		tx = tx.Where("traffic_level = ?", string(filter.TrafficLevel))
	}

	var rows []kioskModel
	if err := tx.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Kiosk, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateSetting(ctx context.Context, setting entities.VolumeDiscountSetting) error {
	row := settingModelFromEntity(setting)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidSettingInput
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateSetting(ctx context.Context, setting entities.VolumeDiscountSetting) error {
	row := settingModelFromEntity(setting)
	result := r.db.WithContext(ctx).
		Model(&settingModel{}).
		Where("setting_id = ?", row.SettingID).
		Updates(map[string]any{
			"name":           row.Name,
			"discount_type":  row.DiscountType,
			"discount_value": row.DiscountValue,
			"min_kiosks":     row.MinKiosks,
			"max_kiosks":     row.MaxKiosks,
			"is_active":      row.IsActive,
			"valid_from":     row.ValidFrom,
			"valid_until":    row.ValidUntil,
			"updated_at":     row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrSettingNotFound
	}
	return nil
}

func (r *Repository) GetSetting(ctx context.Context, settingID string) (entities.VolumeDiscountSetting, error) {
	var row settingModel
	err := r.db.WithContext(ctx).
		Where("setting_id = ?", strings.TrimSpace(settingID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VolumeDiscountSetting{}, domainerrors.ErrSettingNotFound
		}
		return entities.VolumeDiscountSetting{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListSettings(ctx context.Context, onlyActive bool) ([]entities.VolumeDiscountSetting, error) {
	tx := r.db.WithContext(ctx).Model(&settingModel{})
	if onlyActive {
		tx = tx.Where("is_active = ?", true)
	}

	var rows []settingModel
	if err := tx.Order("min_kiosks ASC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.VolumeDiscountSetting, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

type kioskModel struct {
	KioskID      string          `gorm:"column:kiosk_id;primaryKey"`
	Name         string          `gorm:"column:name"`
	Location     string          `gorm:"column:location"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,4)"`
	TrafficLevel string          `gorm:"column:traffic_level"`
	Status       string          `gorm:"column:status"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (kioskModel) TableName() string {
	return "kiosks"
}

func kioskModelFromEntity(item entities.Kiosk) kioskModel {
	return kioskModel{
		KioskID:      strings.TrimSpace(item.KioskID),
		Name:         strings.TrimSpace(item.Name),
		Location:     strings.TrimSpace(item.Location),
		Price:        item.Price,
		TrafficLevel: string(item.TrafficLevel),
		Status:       string(item.Status),
		CreatedAt:    item.CreatedAt.UTC(),
		UpdatedAt:    item.UpdatedAt.UTC(),
	}
}

func (m kioskModel) toEntity() entities.Kiosk {
	return entities.Kiosk{
		KioskID:      m.KioskID,
		Name:         m.Name,
		Location:     m.Location,
		Price:        m.Price,
		TrafficLevel: entities.TrafficLevel(m.TrafficLevel),
		Status:       entities.KioskStatus(m.Status),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

type settingModel struct {
	SettingID     string          `gorm:"column:setting_id;primaryKey"`
	Name          string          `gorm:"column:name"`
	DiscountType  string          `gorm:"column:discount_type"`
	DiscountValue decimal.Decimal `gorm:"column:discount_value;type:numeric(12,4)"`
	MinKiosks     int             `gorm:"column:min_kiosks"`
	MaxKiosks     *int            `gorm:"column:max_kiosks"`
	IsActive      bool            `gorm:"column:is_active"`
	ValidFrom     *time.Time      `gorm:"column:valid_from"`
	ValidUntil    *time.Time      `gorm:"column:valid_until"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (settingModel) TableName() string {
	return "volume_discount_settings"
}

func settingModelFromEntity(item entities.VolumeDiscountSetting) settingModel {
	return settingModel{
		SettingID:     strings.TrimSpace(item.SettingID),
		Name:          strings.TrimSpace(item.Name),
		DiscountType:  string(item.DiscountType),
		DiscountValue: item.DiscountValue,
		MinKiosks:     item.MinKiosks,
		MaxKiosks:     item.MaxKiosks,
		IsActive:      item.IsActive,
		ValidFrom:     normalizeOptionalTime(item.ValidFrom),
		ValidUntil:    normalizeOptionalTime(item.ValidUntil),
		CreatedAt:     item.CreatedAt.UTC(),
		UpdatedAt:     item.UpdatedAt.UTC(),
	}
}

func (m settingModel) toEntity() entities.VolumeDiscountSetting {
	return entities.VolumeDiscountSetting{
		SettingID:     m.SettingID,
		Name:          m.Name,
		DiscountType:  entities.DiscountType(m.DiscountType),
		DiscountValue: m.DiscountValue,
		MinKiosks:     m.MinKiosks,
		MaxKiosks:     m.MaxKiosks,
		IsActive:      m.IsActive,
		ValidFrom:     normalizeOptionalTime(m.ValidFrom),
		ValidUntil:    normalizeOptionalTime(m.ValidUntil),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
