package http

import "github.com/shopspring/decimal"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CampaignDTO struct {
	CampaignID   string          `json:"campaign_id"`
	AdvertiserID string          `json:"advertiser_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Status       string          `json:"status"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	Budget       decimal.Decimal `json:"budget"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	KioskIDs     []string        `json:"kiosk_ids"`
	MediaAssetID string          `json:"media_asset_id,omitempty"`
	ReviewFlag   bool            `json:"review_flag,omitempty"`
	ReviewReason string          `json:"review_reason,omitempty"`
	CreatedAt    string          `json:"created_at"`
	ActivatedAt  string          `json:"activated_at,omitempty"`
	CompletedAt  string          `json:"completed_at,omitempty"`
}

type CreateCampaignRequest struct {
	AdvertiserID string          `json:"advertiser_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	Budget       decimal.Decimal `json:"budget"`
	KioskIDs     []string        `json:"kiosk_ids"`
}

type CreateCampaignResponse struct {
	Status   string      `json:"status"`
	Data     CampaignDTO `json:"data"`
	Replayed bool        `json:"replayed,omitempty"`
}

type GetCampaignResponse struct {
	Status string      `json:"status"`
	Data   CampaignDTO `json:"data"`
}

type ListCampaignsResponse struct {
	Status string        `json:"status"`
	Data   []CampaignDTO `json:"data"`
}

type ChangeStatusRequest struct {
	Action  string `json:"action"`
	ActorID string `json:"actor_id"`
	Reason  string `json:"reason"`
}

type ChangeStatusResponse struct {
	Status string `json:"status"`
}

type MediaAssetDTO struct {
	MediaID     string `json:"media_id"`
	CampaignID  string `json:"campaign_id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
	AssetPath   string `json:"asset_path,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type AttachMediaRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	AssetPath   string `json:"asset_path"`
}

type MediaResponse struct {
	Status string        `json:"status"`
	Data   MediaAssetDTO `json:"data"`
}

type ListMediaResponse struct {
	Status string          `json:"status"`
	Data   []MediaAssetDTO `json:"data"`
}

type ReviewMediaRequest struct {
	Action string `json:"action"`
}

type TriggerRequest struct {
	Action string `json:"action"`
}

type TriggerResponse struct {
	Status                string   `json:"status"`
	CampaignsFound        int      `json:"campaigns_found"`
	CampaignsTransitioned int      `json:"campaigns_transitioned"`
	AssetsArchived        int      `json:"assets_archived"`
	Errors                []string `json:"errors,omitempty"`
}
