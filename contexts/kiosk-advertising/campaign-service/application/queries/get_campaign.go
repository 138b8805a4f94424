package queries

import (
	"context"
	"log/slog"
	"strings"

	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
	"marquee/contexts/kiosk-advertising/campaign-service/ports"
)

type GetCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Logger    *slog.Logger
}

func (uc GetCampaignUseCase) Execute(ctx context.Context, campaignID string) (entities.Campaign, error) {
	return uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
}

type ListCampaignsQuery struct {
	AdvertiserID string
	Status       string
}

type ListCampaignsUseCase struct {
	Campaigns ports.CampaignRepository
	Logger    *slog.Logger
}

func (uc ListCampaignsUseCase) Execute(ctx context.Context, query ListCampaignsQuery) ([]entities.Campaign, error) {
	return uc.Campaigns.ListCampaigns(ctx, ports.CampaignFilter{
		AdvertiserID: strings.TrimSpace(query.AdvertiserID),
		Status:       entities.CampaignStatus(strings.TrimSpace(query.Status)),
	})
}

type ListMediaUseCase struct {
	Media  ports.MediaRepository
	Logger *slog.Logger
}

func (uc ListMediaUseCase) Execute(ctx context.Context, campaignID string) ([]entities.MediaAsset, error) {
	return uc.Media.ListMediaByCampaignAndStatus(ctx, strings.TrimSpace(campaignID), nil)
}
