package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	pricingerrors "marquee/contexts/kiosk-advertising/pricing-engine/domain/errors"
	pricinghttp "marquee/contexts/kiosk-advertising/pricing-engine/transport/http"
)

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req pricinghttp.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePricingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.pricing.Handler.QuoteHandler(r.Context(), req)
	if err != nil {
		writePricingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterKiosk(w http.ResponseWriter, r *http.Request) {
	var req pricinghttp.RegisterKioskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePricingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.pricing.Handler.RegisterKioskHandler(r.Context(), req)
	if err != nil {
		writePricingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListKiosks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.pricing.Handler.ListKiosksHandler(
		r.Context(),
		query.Get("status"),
		query.Get("traffic_level"),
	)
	if err != nil {
		writePricingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetKiosk(w http.ResponseWriter, r *http.Request) {
	kioskID := r.PathValue("kiosk_id")
	resp, err := s.pricing.Handler.GetKioskHandler(r.Context(), kioskID)
	if err != nil {
		writePricingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateSetting(w http.ResponseWriter, r *http.Request) {
	var req pricinghttp.CreateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePricingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.pricing.Handler.CreateSettingHandler(r.Context(), req)
	if err != nil {
		writePricingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req pricinghttp.UpdateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePricingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	settingID := r.PathValue("setting_id")
	resp, err := s.pricing.Handler.UpdateSettingHandler(r.Context(), settingID, req)
	if err != nil {
		writePricingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	onlyActive := strings.EqualFold(r.URL.Query().Get("active"), "true")
	resp, err := s.pricing.Handler.ListSettingsHandler(r.Context(), onlyActive)
	if err != nil {
		writePricingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writePricingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pricingerrors.ErrKioskNotFound):
		writePricingError(w, http.StatusNotFound, "kiosk_not_found", err.Error())
	case errors.Is(err, pricingerrors.ErrSettingNotFound):
		writePricingError(w, http.StatusNotFound, "setting_not_found", err.Error())
	case errors.Is(err, pricingerrors.ErrInvalidKioskInput):
		writePricingError(w, http.StatusBadRequest, "invalid_kiosk", err.Error())
	case errors.Is(err, pricingerrors.ErrInvalidSettingInput):
		writePricingError(w, http.StatusBadRequest, "invalid_setting", err.Error())
	case errors.Is(err, pricingerrors.ErrEmptyKioskSelection):
		writePricingError(w, http.StatusBadRequest, "empty_selection", err.Error())
	case errors.Is(err, pricingerrors.ErrDuplicateKioskSelected):
		writePricingError(w, http.StatusBadRequest, "duplicate_kiosk", err.Error())
	default:
		writePricingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writePricingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, pricinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
