package ports

import (
	"context"
	"time"

	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
	"marquee/internal/shared/events"

	"github.com/shopspring/decimal"
)

type CampaignFilter struct {
	AdvertiserID string
	Status       entities.CampaignStatus
}

type CampaignRepository interface {
	CreateCampaign(ctx context.Context, campaign entities.Campaign) error
	GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error)
	ListCampaigns(ctx context.Context, filter CampaignFilter) ([]entities.Campaign, error)
	// FindDueCampaigns returns pending campaigns whose start date has been
	// reached and active campaigns whose end date has passed, judged
	// against the given business date (midnight UTC).
	FindDueCampaigns(ctx context.Context, today time.Time, limit int) ([]entities.Campaign, error)
	// CompareAndSetStatus atomically moves a campaign from expected to
	// next and returns false without error when the stored status no
	// longer matches expected. This is the concurrency-safety mechanism
	// for overlapping reconciliation passes.
	CompareAndSetStatus(
		ctx context.Context,
		campaignID string,
		expected entities.CampaignStatus,
		next entities.CampaignStatus,
		now time.Time,
	) (bool, error)
	// FindArchivalBacklog returns IDs of completed campaigns that still
	// own media assets in an archivable status. These are campaigns whose
	// archival failed on an earlier pass; the reconciler retries them
	// until every asset lands in archived.
	FindArchivalBacklog(ctx context.Context, limit int) ([]string, error)
	// FlagForReview marks a campaign for manual attention without
	// touching its status.
	FlagForReview(ctx context.Context, campaignID string, reason string) error
}

type HistoryRepository interface {
	AppendState(ctx context.Context, item entities.StateHistory) error
}

type MediaRepository interface {
	AttachMedia(ctx context.Context, media entities.MediaAsset) error
	GetMedia(ctx context.Context, mediaID string) (entities.MediaAsset, error)
	ListMediaByCampaignAndStatus(
		ctx context.Context,
		campaignID string,
		statuses []entities.MediaAssetStatus,
	) ([]entities.MediaAsset, error)
	// CompareAndSetMediaStatus mirrors the campaign CAS for assets,
	// keeping archival idempotent under concurrent sweeps.
	CompareAndSetMediaStatus(
		ctx context.Context,
		mediaID string,
		expected entities.MediaAssetStatus,
		next entities.MediaAssetStatus,
		now time.Time,
	) (bool, error)
}

// ObjectStore relocates a media asset's backing file from its active
// location to the archive location. Relocating an asset with no backing
// file is a no-op success.
type ObjectStore interface {
	Relocate(ctx context.Context, asset entities.MediaAsset) error
}

type StatusChangeEvent struct {
	CampaignID string
	OldStatus  entities.CampaignStatus
	NewStatus  entities.CampaignStatus
	OccurredAt time.Time
}

// NotificationSink receives status change events. Delivery is best-effort:
// callers log and discard any error, never failing the pass over it.
type NotificationSink interface {
	Emit(ctx context.Context, event StatusChangeEvent) error
}

// SelectionPricer is the seam to the pricing engine. The campaign service
// never prices a selection itself.
type SelectionPricer interface {
	PriceSelection(ctx context.Context, kioskIDs []string) (PricingSnapshot, error)
}

type PricingSnapshot struct {
	TotalBase     decimal.Decimal
	TotalDiscount decimal.Decimal
	TotalFinal    decimal.Decimal
}

type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = events.Envelope

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
