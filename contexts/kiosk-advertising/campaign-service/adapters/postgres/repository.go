package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
	domainerrors "marquee/contexts/kiosk-advertising/campaign-service/domain/errors"
	"marquee/contexts/kiosk-advertising/campaign-service/ports"

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

func (r *Repository) CreateCampaign(ctx context.Context, campaign entities.Campaign) error {
	row, err := campaignModelFromEntity(campaign)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidCampaignInput
		}
		return err
	}
	return nil
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListCampaigns(ctx context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	tx := r.db.WithContext(ctx).Model(&campaignModel{})
	if filter.AdvertiserID != "" {
		tx = tx.Where("advertiser_id = ?", filter.AdvertiserID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []campaignModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) FindDueCampaigns(ctx context.Context, today time.Time, limit int) ([]entities.Campaign, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []campaignModel
	err := r.db.WithContext(ctx).
		Where("(status = ? AND start_date <= ?) OR (status = ? AND end_date < ?)",
			string(entities.CampaignStatusPending), today.UTC(),
			string(entities.CampaignStatusActive), today.UTC()).
		Order("campaign_id ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) FindArchivalBacklog(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}

	archivable := make([]string, 0, 2)
	for _, status := range entities.ArchivableMediaStatuses() {
		archivable = append(archivable, string(status))
	}

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Distinct("campaigns.campaign_id").
		Joins("JOIN media_assets ON media_assets.campaign_id = campaigns.campaign_id").
		Where("campaigns.status = ?", string(entities.CampaignStatusCompleted)).
		Where("media_assets.status IN ?", archivable).
		Order("campaigns.campaign_id ASC").
		Limit(limit).
		Pluck("campaigns.campaign_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) CompareAndSetStatus(
	ctx context.Context,
	campaignID string,
	expected entities.CampaignStatus,
	next entities.CampaignStatus,
	now time.Time,
) (bool, error) {
	updates := map[string]any{
		"status":     string(next),
		"updated_at": now.UTC(),
	}
	switch next {
	case entities.CampaignStatusActive:
		// A resume must not reset the first activation timestamp.
		updates["activated_at"] = gorm.Expr("COALESCE(activated_at, ?)", now.UTC())
	case entities.CampaignStatusCompleted:
		updates["completed_at"] = now.UTC()
	}

	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ? AND status = ?", strings.TrimSpace(campaignID), string(expected)).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&campaignModel{}).
			Where("campaign_id = ?", strings.TrimSpace(campaignID)).
			Count(&count).
			Error; err != nil {
			return false, err
		}
		if count == 0 {
			return false, domainerrors.ErrCampaignNotFound
		}
		return false, nil
	}
	return true, nil
}

func (r *Repository) FlagForReview(ctx context.Context, campaignID string, reason string) error {
	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Updates(map[string]any{
			"review_flag":   true,
			"review_reason": strings.TrimSpace(reason),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return nil
}

func (r *Repository) AppendState(ctx context.Context, item entities.StateHistory) error {
	row := stateHistoryModelFromEntity(item)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) AttachMedia(ctx context.Context, media entities.MediaAsset) error {
	row := mediaModelFromEntity(media)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrMediaAlreadyAttached
		}
		return err
	}
	return nil
}

func (r *Repository) GetMedia(ctx context.Context, mediaID string) (entities.MediaAsset, error) {
	var row mediaModel
	err := r.db.WithContext(ctx).
		Where("media_id = ?", strings.TrimSpace(mediaID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.MediaAsset{}, domainerrors.ErrMediaNotFound
		}
		return entities.MediaAsset{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListMediaByCampaignAndStatus(
	ctx context.Context,
	campaignID string,
	statuses []entities.MediaAssetStatus,
) ([]entities.MediaAsset, error) {
	tx := r.db.WithContext(ctx).
		Model(&mediaModel{}).
		Where("campaign_id = ?", strings.TrimSpace(campaignID))
	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, status := range statuses {
			values = append(values, string(status))
		}
		tx = tx.Where("status IN ?", values)
	}

	var rows []mediaModel
	if err := tx.Order("media_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.MediaAsset, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CompareAndSetMediaStatus(
	ctx context.Context,
	mediaID string,
	expected entities.MediaAssetStatus,
	next entities.MediaAssetStatus,
	now time.Time,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&mediaModel{}).
		Where("media_id = ? AND status = ?", strings.TrimSpace(mediaID), string(expected)).
		Updates(map[string]any{
			"status":     string(next),
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&mediaModel{}).
			Where("media_id = ?", strings.TrimSpace(mediaID)).
			Count(&count).
			Error; err != nil {
			return false, err
		}
		if count == 0 {
			return false, domainerrors.ErrMediaNotFound
		}
		return false, nil
	}
	return true, nil
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("idempotency_key = ? AND expires_at > ?", strings.TrimSpace(key), now.UTC()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}
	return row.toRecord(), true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModelFromRecord(record)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrIdempotencyKeyConflict
		}
		return err
	}
	return nil
}

type campaignModel struct {
	CampaignID   string          `gorm:"column:campaign_id;primaryKey"`
	AdvertiserID string          `gorm:"column:advertiser_id;index"`
	Name         string          `gorm:"column:name"`
	Description  string          `gorm:"column:description"`
	Status       string          `gorm:"column:status;index"`
	StartDate    time.Time       `gorm:"column:start_date"`
	EndDate      time.Time       `gorm:"column:end_date"`
	Budget       decimal.Decimal `gorm:"column:budget;type:numeric(12,4)"`
	TotalCost    decimal.Decimal `gorm:"column:total_cost;type:numeric(12,4)"`
	KioskIDs     string          `gorm:"column:kiosk_ids;type:jsonb"`
	MediaAssetID string          `gorm:"column:media_asset_id"`
	ReviewFlag   bool            `gorm:"column:review_flag"`
	ReviewReason string          `gorm:"column:review_reason"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
	ActivatedAt  *time.Time      `gorm:"column:activated_at"`
	CompletedAt  *time.Time      `gorm:"column:completed_at"`
}

func (campaignModel) TableName() string {
	return "campaigns"
}

func campaignModelFromEntity(item entities.Campaign) (campaignModel, error) {
	kioskIDs, err := json.Marshal(item.KioskIDs)
	if err != nil {
		return campaignModel{}, err
	}
	return campaignModel{
		CampaignID:   strings.TrimSpace(item.CampaignID),
		AdvertiserID: strings.TrimSpace(item.AdvertiserID),
		Name:         strings.TrimSpace(item.Name),
		Description:  strings.TrimSpace(item.Description),
		Status:       string(item.Status),
		StartDate:    item.StartDate.UTC(),
		EndDate:      item.EndDate.UTC(),
		Budget:       item.Budget,
		TotalCost:    item.TotalCost,
		KioskIDs:     string(kioskIDs),
		MediaAssetID: strings.TrimSpace(item.MediaAssetID),
		ReviewFlag:   item.ReviewFlag,
		ReviewReason: strings.TrimSpace(item.ReviewReason),
		CreatedAt:    item.CreatedAt.UTC(),
		UpdatedAt:    item.UpdatedAt.UTC(),
		ActivatedAt:  normalizeOptionalTime(item.ActivatedAt),
		CompletedAt:  normalizeOptionalTime(item.CompletedAt),
	}, nil
}

func (m campaignModel) toEntity() (entities.Campaign, error) {
	var kioskIDs []string
	if m.KioskIDs != "" {
		if err := json.Unmarshal([]byte(m.KioskIDs), &kioskIDs); err != nil {
			return entities.Campaign{}, err
		}
	}
	return entities.Campaign{
		CampaignID:   m.CampaignID,
		AdvertiserID: m.AdvertiserID,
		Name:         m.Name,
		Description:  m.Description,
		Status:       entities.CampaignStatus(m.Status),
		StartDate:    m.StartDate.UTC(),
		EndDate:      m.EndDate.UTC(),
		Budget:       m.Budget,
		TotalCost:    m.TotalCost,
		KioskIDs:     kioskIDs,
		MediaAssetID: m.MediaAssetID,
		ReviewFlag:   m.ReviewFlag,
		ReviewReason: m.ReviewReason,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
		ActivatedAt:  normalizeOptionalTime(m.ActivatedAt),
		CompletedAt:  normalizeOptionalTime(m.CompletedAt),
	}, nil
}

type stateHistoryModel struct {
	HistoryID    string    `gorm:"column:history_id;primaryKey"`
	CampaignID   string    `gorm:"column:campaign_id;index"`
	FromState    string    `gorm:"column:from_state"`
	ToState      string    `gorm:"column:to_state"`
	ChangedBy    string    `gorm:"column:changed_by"`
	ChangeReason string    `gorm:"column:change_reason"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (stateHistoryModel) TableName() string {
	return "campaign_state_history"
}

func stateHistoryModelFromEntity(item entities.StateHistory) stateHistoryModel {
	return stateHistoryModel{
		HistoryID:    strings.TrimSpace(item.HistoryID),
		CampaignID:   strings.TrimSpace(item.CampaignID),
		FromState:    string(item.FromState),
		ToState:      string(item.ToState),
		ChangedBy:    strings.TrimSpace(item.ChangedBy),
		ChangeReason: strings.TrimSpace(item.ChangeReason),
		CreatedAt:    item.CreatedAt.UTC(),
	}
}

type mediaModel struct {
	MediaID     string    `gorm:"column:media_id;primaryKey"`
	CampaignID  string    `gorm:"column:campaign_id;index"`
	FileName    string    `gorm:"column:file_name"`
	ContentType string    `gorm:"column:content_type"`
	AssetPath   string    `gorm:"column:asset_path"`
	Status      string    `gorm:"column:status;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (mediaModel) TableName() string {
	return "media_assets"
}

func mediaModelFromEntity(item entities.MediaAsset) mediaModel {
	return mediaModel{
		MediaID:     strings.TrimSpace(item.MediaID),
		CampaignID:  strings.TrimSpace(item.CampaignID),
		FileName:    strings.TrimSpace(item.FileName),
		ContentType: strings.TrimSpace(item.ContentType),
		AssetPath:   strings.TrimSpace(item.AssetPath),
		Status:      string(item.Status),
		CreatedAt:   item.CreatedAt.UTC(),
		UpdatedAt:   item.UpdatedAt.UTC(),
	}
}

func (m mediaModel) toEntity() entities.MediaAsset {
	return entities.MediaAsset{
		MediaID:     m.MediaID,
		CampaignID:  m.CampaignID,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		AssetPath:   m.AssetPath,
		Status:      entities.MediaAssetStatus(m.Status),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type idempotencyModel struct {
	IdempotencyKey  string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at;index"`
}

func (idempotencyModel) TableName() string {
	return "campaign_idempotency_keys"
}

func idempotencyModelFromRecord(record ports.IdempotencyRecord) idempotencyModel {
	return idempotencyModel{
		IdempotencyKey:  strings.TrimSpace(record.Key),
		RequestHash:     record.RequestHash,
		ResponsePayload: record.ResponsePayload,
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
}

func (m idempotencyModel) toRecord() ports.IdempotencyRecord {
	return ports.IdempotencyRecord{
		Key:             m.IdempotencyKey,
		RequestHash:     m.RequestHash,
		ResponsePayload: m.ResponsePayload,
		ExpiresAt:       m.ExpiresAt.UTC(),
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
