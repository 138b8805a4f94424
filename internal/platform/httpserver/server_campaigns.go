package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	campaignerrors "marquee/contexts/kiosk-advertising/campaign-service/domain/errors"
	campaignhttp "marquee/contexts/kiosk-advertising/campaign-service/transport/http"
)

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignhttp.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.campaigns.Handler.CreateCampaignHandler(
		r.Context(),
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	status := http.StatusCreated
	if resp.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("campaign_id")
	resp, err := s.campaigns.Handler.GetCampaignHandler(r.Context(), campaignID)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.campaigns.Handler.ListCampaignsHandler(
		r.Context(),
		query.Get("advertiser_id"),
		query.Get("status"),
	)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req campaignhttp.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if req.ActorID == "" {
		req.ActorID = r.Header.Get("X-User-Id")
	}

	campaignID := r.PathValue("campaign_id")
	resp, err := s.campaigns.Handler.ChangeStatusHandler(r.Context(), campaignID, req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAttachMedia(w http.ResponseWriter, r *http.Request) {
	var req campaignhttp.AttachMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	campaignID := r.PathValue("campaign_id")
	resp, err := s.campaigns.Handler.AttachMediaHandler(r.Context(), campaignID, req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListMedia(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("campaign_id")
	resp, err := s.campaigns.Handler.ListMediaHandler(r.Context(), campaignID)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewMedia(w http.ResponseWriter, r *http.Request) {
	var req campaignhttp.ReviewMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	mediaID := r.PathValue("media_id")
	resp, err := s.campaigns.Handler.ReviewMediaHandler(r.Context(), mediaID, req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	var req campaignhttp.TriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.campaigns.Handler.TriggerHandler(r.Context(), req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCampaignDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, campaignerrors.ErrCampaignNotFound):
		writeCampaignError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, campaignerrors.ErrMediaNotFound):
		writeCampaignError(w, http.StatusNotFound, "media_not_found", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidCampaignInput):
		writeCampaignError(w, http.StatusBadRequest, "invalid_campaign", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidCampaignDates):
		writeCampaignError(w, http.StatusBadRequest, "invalid_campaign_dates", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidStateTransition):
		writeCampaignError(w, http.StatusConflict, "invalid_state_transition", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidMediaTransition):
		writeCampaignError(w, http.StatusConflict, "invalid_media_transition", err.Error())
	case errors.Is(err, campaignerrors.ErrMediaAlreadyAttached):
		writeCampaignError(w, http.StatusConflict, "media_already_attached", err.Error())
	case errors.Is(err, campaignerrors.ErrIdempotencyKeyRequired):
		writeCampaignError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, campaignerrors.ErrIdempotencyKeyConflict):
		writeCampaignError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, campaignerrors.ErrUnknownTriggerAction):
		writeCampaignError(w, http.StatusBadRequest, "unknown_trigger_action", err.Error())
	default:
		writeCampaignError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCampaignError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, campaignhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
