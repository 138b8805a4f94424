package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "marquee/contexts/kiosk-advertising/campaign-service/application"
	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
	domainerrors "marquee/contexts/kiosk-advertising/campaign-service/domain/errors"
	"marquee/contexts/kiosk-advertising/campaign-service/ports"

	"github.com/shopspring/decimal"
)

type CreateCampaignCommand struct {
	AdvertiserID   string
	IdempotencyKey string
	Name           string
	Description    string
	StartDate      time.Time
	EndDate        time.Time
	Budget         decimal.Decimal
	// KioskIDs in selection order; the order decides discount tiers and
	// is preserved verbatim.
	KioskIDs []string
}

type CreateCampaignUseCase struct {
	Campaigns      ports.CampaignRepository
	Idempotency    ports.IdempotencyStore
	Pricer         ports.SelectionPricer
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

type CreateCampaignResult struct {
	Campaign entities.Campaign
	Replayed bool
}

type createCampaignReplayPayload struct {
	CampaignID   string                  `json:"campaign_id"`
	AdvertiserID string                  `json:"advertiser_id"`
	Name         string                  `json:"name"`
	Description  string                  `json:"description"`
	Status       entities.CampaignStatus `json:"status"`
	StartDate    time.Time               `json:"start_date"`
	EndDate      time.Time               `json:"end_date"`
	Budget       decimal.Decimal         `json:"budget"`
	TotalCost    decimal.Decimal         `json:"total_cost"`
	KioskIDs     []string                `json:"kiosk_ids"`
}

func (uc CreateCampaignUseCase) Execute(ctx context.Context, cmd CreateCampaignCommand) (CreateCampaignResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return CreateCampaignResult{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.Clock.Now().UTC()
	requestHash := hashCreateCampaignCommand(cmd)
	if record, found, err := uc.Idempotency.GetRecord(ctx, cmd.IdempotencyKey, now); err != nil {
		return CreateCampaignResult{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return CreateCampaignResult{}, domainerrors.ErrIdempotencyKeyConflict
		}
		var payload createCampaignReplayPayload
		if err := json.Unmarshal(record.ResponsePayload, &payload); err != nil {
			return CreateCampaignResult{}, err
		}
		return CreateCampaignResult{
			Campaign: entities.Campaign{
				CampaignID:   payload.CampaignID,
				AdvertiserID: payload.AdvertiserID,
				Name:         payload.Name,
				Description:  payload.Description,
				Status:       payload.Status,
				StartDate:    payload.StartDate,
				EndDate:      payload.EndDate,
				Budget:       payload.Budget,
				TotalCost:    payload.TotalCost,
				KioskIDs:     append([]string(nil), payload.KioskIDs...),
			},
			Replayed: true,
		}, nil
	}

	kioskIDs, err := normalizeSelection(cmd.KioskIDs)
	if err != nil {
		return CreateCampaignResult{}, err
	}

	campaignID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateCampaignResult{}, err
	}

	campaign := entities.Campaign{
		CampaignID:   campaignID,
		AdvertiserID: strings.TrimSpace(cmd.AdvertiserID),
		Name:         strings.TrimSpace(cmd.Name),
		Description:  strings.TrimSpace(cmd.Description),
		Status:       entities.CampaignStatusDraft,
		StartDate:    entities.DateOnly(cmd.StartDate),
		EndDate:      entities.DateOnly(cmd.EndDate),
		Budget:       cmd.Budget,
		KioskIDs:     kioskIDs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if campaign.AdvertiserID == "" || campaign.Name == "" ||
		campaign.Budget.IsNegative() || campaign.Budget.IsZero() {
		return CreateCampaignResult{}, domainerrors.ErrInvalidCampaignInput
	}
	if !campaign.ValidateDates() {
		return CreateCampaignResult{}, domainerrors.ErrInvalidCampaignDates
	}

	// TotalCost is always the engine's output for the kiosk set, never a
	// caller-supplied number.
	snapshot, err := uc.Pricer.PriceSelection(ctx, kioskIDs)
	if err != nil {
		return CreateCampaignResult{}, err
	}
	campaign.TotalCost = snapshot.TotalFinal

	if err := uc.Campaigns.CreateCampaign(ctx, campaign); err != nil {
		return CreateCampaignResult{}, err
	}

	payload := createCampaignReplayPayload{
		CampaignID:   campaign.CampaignID,
		AdvertiserID: campaign.AdvertiserID,
		Name:         campaign.Name,
		Description:  campaign.Description,
		Status:       campaign.Status,
		StartDate:    campaign.StartDate,
		EndDate:      campaign.EndDate,
		Budget:       campaign.Budget,
		TotalCost:    campaign.TotalCost,
		KioskIDs:     append([]string(nil), campaign.KioskIDs...),
	}
	serialized, err := json.Marshal(payload)
	if err != nil {
		return CreateCampaignResult{}, err
	}
	if err := uc.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             cmd.IdempotencyKey,
		RequestHash:     requestHash,
		ResponsePayload: serialized,
		ExpiresAt:       now.Add(uc.IdempotencyTTL),
	}); err != nil {
		return CreateCampaignResult{}, err
	}

	logger.Info("campaign created",
		"event", "campaign_created",
		"module", "kiosk-advertising/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"advertiser_id", campaign.AdvertiserID,
		"kiosk_count", len(campaign.KioskIDs),
		"total_cost", campaign.TotalCost.String(),
	)
	return CreateCampaignResult{Campaign: campaign}, nil
}

func normalizeSelection(kioskIDs []string) ([]string, error) {
	ids := make([]string, 0, len(kioskIDs))
	seen := make(map[string]struct{}, len(kioskIDs))
	for _, raw := range kioskIDs {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			return nil, domainerrors.ErrInvalidCampaignInput
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, domainerrors.ErrInvalidCampaignInput
	}
	return ids, nil
}

func hashCreateCampaignCommand(cmd CreateCampaignCommand) string {
	payload := map[string]any{
		"advertiser_id": strings.TrimSpace(cmd.AdvertiserID),
		"name":          strings.TrimSpace(cmd.Name),
		"description":   strings.TrimSpace(cmd.Description),
		"start_date":    entities.DateOnly(cmd.StartDate).Format(time.RFC3339),
		"end_date":      entities.DateOnly(cmd.EndDate).Format(time.RFC3339),
		"budget":        cmd.Budget.String(),
		"kiosk_ids":     append([]string(nil), cmd.KioskIDs...),
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
