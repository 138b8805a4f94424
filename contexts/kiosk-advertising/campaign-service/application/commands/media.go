package commands

import (
	"context"
	"log/slog"
	"strings"

	application "marquee/contexts/kiosk-advertising/campaign-service/application"
	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
	domainerrors "marquee/contexts/kiosk-advertising/campaign-service/domain/errors"
	"marquee/contexts/kiosk-advertising/campaign-service/ports"
)

type AttachMediaCommand struct {
	CampaignID  string
	FileName    string
	ContentType string
	AssetPath   string
}

type AttachMediaUseCase struct {
	Campaigns ports.CampaignRepository
	Media     ports.MediaRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc AttachMediaUseCase) Execute(ctx context.Context, cmd AttachMediaCommand) (entities.MediaAsset, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return entities.MediaAsset{}, err
	}
	if strings.TrimSpace(cmd.FileName) == "" {
		return entities.MediaAsset{}, domainerrors.ErrInvalidCampaignInput
	}

	now := uc.Clock.Now().UTC()
	mediaID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.MediaAsset{}, err
	}

	asset := entities.MediaAsset{
		MediaID:     mediaID,
		CampaignID:  campaign.CampaignID,
		FileName:    strings.TrimSpace(cmd.FileName),
		ContentType: strings.TrimSpace(cmd.ContentType),
		AssetPath:   strings.TrimSpace(cmd.AssetPath),
		Status:      entities.MediaAssetStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Media.AttachMedia(ctx, asset); err != nil {
		return entities.MediaAsset{}, err
	}

	logger.Info("media asset attached",
		"event", "media_attached",
		"module", "kiosk-advertising/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"media_id", asset.MediaID,
	)
	return asset, nil
}

type ReviewMediaAction string

const (
	MediaActionApprove  ReviewMediaAction = "approve"
	MediaActionReject   ReviewMediaAction = "reject"
	MediaActionActivate ReviewMediaAction = "activate"
)

type ReviewMediaCommand struct {
	MediaID string
	Action  ReviewMediaAction
}

type ReviewMediaUseCase struct {
	Media  ports.MediaRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc ReviewMediaUseCase) Execute(ctx context.Context, cmd ReviewMediaCommand) (entities.MediaAsset, error) {
	logger := application.ResolveLogger(uc.Logger)
	asset, err := uc.Media.GetMedia(ctx, strings.TrimSpace(cmd.MediaID))
	if err != nil {
		return entities.MediaAsset{}, err
	}

	var to entities.MediaAssetStatus
	switch cmd.Action {
	case MediaActionApprove:
		to = entities.MediaAssetStatusApproved
	case MediaActionReject:
		to = entities.MediaAssetStatusRejected
	case MediaActionActivate:
		to = entities.MediaAssetStatusActive
	default:
		return entities.MediaAsset{}, domainerrors.ErrInvalidMediaTransition
	}
	if !entities.CanTransitionMedia(asset.Status, to) {
		return entities.MediaAsset{}, domainerrors.ErrInvalidMediaTransition
	}

	now := uc.Clock.Now().UTC()
	applied, err := uc.Media.CompareAndSetMediaStatus(ctx, asset.MediaID, asset.Status, to, now)
	if err != nil {
		return entities.MediaAsset{}, err
	}
	if !applied {
		return entities.MediaAsset{}, domainerrors.ErrInvalidMediaTransition
	}
	from := asset.Status
	asset.Status = to
	asset.UpdatedAt = now

	logger.Info("media asset reviewed",
		"event", "media_reviewed",
		"module", "kiosk-advertising/campaign-service",
		"layer", "application",
		"media_id", asset.MediaID,
		"from_status", string(from),
		"to_status", string(to),
	)
	return asset, nil
}
