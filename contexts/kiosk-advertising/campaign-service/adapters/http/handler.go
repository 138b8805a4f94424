package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"marquee/contexts/kiosk-advertising/campaign-service/application/commands"
	"marquee/contexts/kiosk-advertising/campaign-service/application/queries"
	"marquee/contexts/kiosk-advertising/campaign-service/application/workers"
	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
	domainerrors "marquee/contexts/kiosk-advertising/campaign-service/domain/errors"
	httptransport "marquee/contexts/kiosk-advertising/campaign-service/transport/http"
)

type Handler struct {
	CreateCampaign commands.CreateCampaignUseCase
	ChangeStatus   commands.ChangeStatusUseCase
	AttachMedia    commands.AttachMediaUseCase
	ReviewMedia    commands.ReviewMediaUseCase
	GetCampaign    queries.GetCampaignUseCase
	ListCampaigns  queries.ListCampaignsUseCase
	ListMedia      queries.ListMediaUseCase
	Driver         *workers.Driver
	Logger         *slog.Logger
}

// @Summary Create a campaign
// @Description Creates a draft campaign priced against the current discount settings. Requires an Idempotency-Key header; replays return the original result.
// @Tags campaigns
// @Accept json
// @Produce json
// @Param Idempotency-Key header string true "Idempotency key"
// @Param request body http.CreateCampaignRequest true "Campaign"
// @Success 201 {object} http.CreateCampaignResponse
// @Failure 400 {object} http.ErrorResponse
// @Failure 409 {object} http.ErrorResponse
// @Router /campaigns [post]
func (h Handler) CreateCampaignHandler(ctx context.Context, idempotencyKey string, req httptransport.CreateCampaignRequest) (httptransport.CreateCampaignResponse, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return httptransport.CreateCampaignResponse{}, domainerrors.ErrInvalidCampaignDates
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return httptransport.CreateCampaignResponse{}, domainerrors.ErrInvalidCampaignDates
	}

	result, err := h.CreateCampaign.Execute(ctx, commands.CreateCampaignCommand{
		AdvertiserID:   req.AdvertiserID,
		IdempotencyKey: idempotencyKey,
		Name:           req.Name,
		Description:    req.Description,
		StartDate:      startDate,
		EndDate:        endDate,
		Budget:         req.Budget,
		KioskIDs:       append([]string(nil), req.KioskIDs...),
	})
	if err != nil {
		return httptransport.CreateCampaignResponse{}, err
	}
	return httptransport.CreateCampaignResponse{
		Status:   "success",
		Data:     mapCampaign(result.Campaign),
		Replayed: result.Replayed,
	}, nil
}

// @Summary Get campaign details
// @Tags campaigns
// @Produce json
// @Param campaign_id path string true "Campaign ID"
// @Success 200 {object} http.GetCampaignResponse
// @Failure 404 {object} http.ErrorResponse
// @Router /campaigns/{campaign_id} [get]
func (h Handler) GetCampaignHandler(ctx context.Context, campaignID string) (httptransport.GetCampaignResponse, error) {
	item, err := h.GetCampaign.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{
		Status: "success",
		Data:   mapCampaign(item),
	}, nil
}

// @Summary List campaigns
// @Tags campaigns
// @Produce json
// @Param advertiser_id query string false "Advertiser filter"
// @Param status query string false "Status filter"
// @Success 200 {object} http.ListCampaignsResponse
// @Router /campaigns [get]
func (h Handler) ListCampaignsHandler(ctx context.Context, advertiserID string, status string) (httptransport.ListCampaignsResponse, error) {
	items, err := h.ListCampaigns.Execute(ctx, queries.ListCampaignsQuery{
		AdvertiserID: advertiserID,
		Status:       status,
	})
	if err != nil {
		return httptransport.ListCampaignsResponse{}, err
	}
	resp := httptransport.ListCampaignsResponse{
		Status: "success",
		Data:   make([]httptransport.CampaignDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, mapCampaign(item))
	}
	return resp, nil
}

// @Summary Apply a lifecycle action to a campaign
// @Description Drives the externally triggered lifecycle edges: submit, pause, resume, reject, cancel. Date-driven edges are owned by the reconciler and cannot be requested here.
// @Tags campaigns
// @Accept json
// @Produce json
// @Param campaign_id path string true "Campaign ID"
// @Param request body http.ChangeStatusRequest true "Action"
// @Success 200 {object} http.ChangeStatusResponse
// @Failure 404 {object} http.ErrorResponse
// @Failure 409 {object} http.ErrorResponse
// @Router /campaigns/{campaign_id}/status [post]
func (h Handler) ChangeStatusHandler(ctx context.Context, campaignID string, req httptransport.ChangeStatusRequest) (httptransport.ChangeStatusResponse, error) {
	err := h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
		CampaignID: campaignID,
		ActorID:    req.ActorID,
		Action:     commands.ChangeStatusAction(strings.TrimSpace(req.Action)),
		Reason:     req.Reason,
	})
	if err != nil {
		return httptransport.ChangeStatusResponse{}, err
	}
	return httptransport.ChangeStatusResponse{Status: "success"}, nil
}

// @Summary Attach a media asset to a campaign
// @Tags media
// @Accept json
// @Produce json
// @Param campaign_id path string true "Campaign ID"
// @Param request body http.AttachMediaRequest true "Asset"
// @Success 201 {object} http.MediaResponse
// @Failure 404 {object} http.ErrorResponse
// @Router /campaigns/{campaign_id}/media [post]
func (h Handler) AttachMediaHandler(ctx context.Context, campaignID string, req httptransport.AttachMediaRequest) (httptransport.MediaResponse, error) {
	asset, err := h.AttachMedia.Execute(ctx, commands.AttachMediaCommand{
		CampaignID:  campaignID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		AssetPath:   req.AssetPath,
	})
	if err != nil {
		return httptransport.MediaResponse{}, err
	}
	return httptransport.MediaResponse{
		Status: "success",
		Data:   mapMedia(asset),
	}, nil
}

// @Summary List a campaign's media assets
// @Tags media
// @Produce json
// @Param campaign_id path string true "Campaign ID"
// @Success 200 {object} http.ListMediaResponse
// @Router /campaigns/{campaign_id}/media [get]
func (h Handler) ListMediaHandler(ctx context.Context, campaignID string) (httptransport.ListMediaResponse, error) {
	items, err := h.ListMedia.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.ListMediaResponse{}, err
	}
	resp := httptransport.ListMediaResponse{
		Status: "success",
		Data:   make([]httptransport.MediaAssetDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, mapMedia(item))
	}
	return resp, nil
}

// @Summary Review a media asset
// @Tags media
// @Accept json
// @Produce json
// @Param media_id path string true "Media ID"
// @Param request body http.ReviewMediaRequest true "Action"
// @Success 200 {object} http.MediaResponse
// @Failure 404 {object} http.ErrorResponse
// @Failure 409 {object} http.ErrorResponse
// @Router /media/{media_id}/review [post]
func (h Handler) ReviewMediaHandler(ctx context.Context, mediaID string, req httptransport.ReviewMediaRequest) (httptransport.MediaResponse, error) {
	asset, err := h.ReviewMedia.Execute(ctx, commands.ReviewMediaCommand{
		MediaID: mediaID,
		Action:  commands.ReviewMediaAction(strings.TrimSpace(req.Action)),
	})
	if err != nil {
		return httptransport.MediaResponse{}, err
	}
	return httptransport.MediaResponse{
		Status: "success",
		Data:   mapMedia(asset),
	}, nil
}

// @Summary Trigger a reconciliation pass
// @Description Runs one lifecycle reconciliation pass immediately. The only recognized action is check_expired_campaigns.
// @Tags operations
// @Accept json
// @Produce json
// @Param request body http.TriggerRequest true "Trigger"
// @Success 200 {object} http.TriggerResponse
// @Failure 400 {object} http.ErrorResponse
// @Router /operations/trigger [post]
func (h Handler) TriggerHandler(ctx context.Context, req httptransport.TriggerRequest) (httptransport.TriggerResponse, error) {
	summary, err := h.Driver.TriggerNow(ctx, strings.TrimSpace(req.Action))
	if err != nil {
		return httptransport.TriggerResponse{}, err
	}
	return httptransport.TriggerResponse{
		Status:                "success",
		CampaignsFound:        summary.CampaignsFound,
		CampaignsTransitioned: summary.CampaignsTransitioned,
		AssetsArchived:        summary.AssetsArchived,
		Errors:                append([]string(nil), summary.Errors...),
	}, nil
}

func mapCampaign(item entities.Campaign) httptransport.CampaignDTO {
	dto := httptransport.CampaignDTO{
		CampaignID:   item.CampaignID,
		AdvertiserID: item.AdvertiserID,
		Name:         item.Name,
		Description:  item.Description,
		Status:       string(item.Status),
		StartDate:    item.StartDate.UTC().Format(time.DateOnly),
		EndDate:      item.EndDate.UTC().Format(time.DateOnly),
		Budget:       item.Budget,
		TotalCost:    item.TotalCost,
		KioskIDs:     append([]string(nil), item.KioskIDs...),
		MediaAssetID: item.MediaAssetID,
		ReviewFlag:   item.ReviewFlag,
		ReviewReason: item.ReviewReason,
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
	}
	if item.ActivatedAt != nil {
		dto.ActivatedAt = item.ActivatedAt.UTC().Format(time.RFC3339)
	}
	if item.CompletedAt != nil {
		dto.CompletedAt = item.CompletedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func mapMedia(item entities.MediaAsset) httptransport.MediaAssetDTO {
	return httptransport.MediaAssetDTO{
		MediaID:     item.MediaID,
		CampaignID:  item.CampaignID,
		FileName:    item.FileName,
		ContentType: item.ContentType,
		AssetPath:   item.AssetPath,
		Status:      string(item.Status),
		CreatedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// parseDate accepts either a bare calendar date or a full RFC 3339
// timestamp, keeping only the date part.
func parseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if parsed, err := time.Parse(time.DateOnly, value); err == nil {
		return parsed.UTC(), nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}
