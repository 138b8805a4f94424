package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"marquee/contexts/kiosk-advertising/pricing-engine/application/commands"
	"marquee/contexts/kiosk-advertising/pricing-engine/application/queries"
	"marquee/contexts/kiosk-advertising/pricing-engine/domain/entities"
	domainerrors "marquee/contexts/kiosk-advertising/pricing-engine/domain/errors"
	"marquee/contexts/kiosk-advertising/pricing-engine/domain/services"
	httptransport "marquee/contexts/kiosk-advertising/pricing-engine/transport/http"
)

type Handler struct {
	RegisterKiosk  commands.RegisterKioskUseCase
	CreateSetting  commands.CreateSettingUseCase
	UpdateSetting  commands.UpdateSettingUseCase
	QuoteSelection queries.QuoteSelectionUseCase
	ListKiosks     queries.ListKiosksUseCase
	GetKiosk       queries.GetKioskUseCase
	ListSettings   queries.ListSettingsUseCase
	Logger         *slog.Logger
}

// @Summary Price an ordered kiosk selection
// @Description Computes per-kiosk and total pricing under the active volume discount settings. Selection order decides discount tiers.
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body http.QuoteRequest true "Kiosk selection"
// @Success 200 {object} http.QuoteResponse
// @Failure 400 {object} http.ErrorResponse
// @Router /pricing/quote [post]
func (h Handler) QuoteHandler(ctx context.Context, req httptransport.QuoteRequest) (httptransport.QuoteResponse, error) {
	quote, err := h.QuoteSelection.Execute(ctx, queries.QuoteSelectionQuery{
		KioskIDs: append([]string(nil), req.KioskIDs...),
	})
	if err != nil {
		return httptransport.QuoteResponse{}, err
	}
	return mapQuote(quote), nil
}

// @Summary Register a kiosk
// @Tags kiosks
// @Accept json
// @Produce json
// @Param request body http.RegisterKioskRequest true "Kiosk"
// @Success 201 {object} http.RegisterKioskResponse
// @Failure 400 {object} http.ErrorResponse
// @Router /kiosks [post]
func (h Handler) RegisterKioskHandler(ctx context.Context, req httptransport.RegisterKioskRequest) (httptransport.RegisterKioskResponse, error) {
	kiosk, err := h.RegisterKiosk.Execute(ctx, commands.RegisterKioskCommand{
		Name:         req.Name,
		Location:     req.Location,
		Price:        req.Price,
		TrafficLevel: req.TrafficLevel,
		Status:       req.Status,
	})
	if err != nil {
		return httptransport.RegisterKioskResponse{}, err
	}
	return httptransport.RegisterKioskResponse{
		Status: "success",
		Data:   mapKiosk(kiosk),
	}, nil
}

// @Summary List kiosks
// @Tags kiosks
// @Produce json
// @Param status query string false "Kiosk status filter"
// @Param traffic_level query string false "Traffic level filter"
// @Success 200 {object} http.ListKiosksResponse
// @Router /kiosks [get]
func (h Handler) ListKiosksHandler(ctx context.Context, status string, trafficLevel string) (httptransport.ListKiosksResponse, error) {
	items, err := h.ListKiosks.Execute(ctx, queries.ListKiosksQuery{
		Status:       status,
		TrafficLevel: trafficLevel,
	})
	if err != nil {
		return httptransport.ListKiosksResponse{}, err
	}
	resp := httptransport.ListKiosksResponse{
		Status: "success",
		Data:   make([]httptransport.KioskDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, mapKiosk(item))
	}
	return resp, nil
}

// @Summary Get kiosk details
// @Tags kiosks
// @Produce json
// @Param kiosk_id path string true "Kiosk ID"
// @Success 200 {object} http.GetKioskResponse
// @Failure 404 {object} http.ErrorResponse
// @Router /kiosks/{kiosk_id} [get]
func (h Handler) GetKioskHandler(ctx context.Context, kioskID string) (httptransport.GetKioskResponse, error) {
	item, err := h.GetKiosk.Execute(ctx, kioskID)
	if err != nil {
		return httptransport.GetKioskResponse{}, err
	}
	return httptransport.GetKioskResponse{
		Status: "success",
		Data:   mapKiosk(item),
	}, nil
}

// @Summary Create a volume discount setting
// @Tags discounts
// @Accept json
// @Produce json
// @Param request body http.CreateSettingRequest true "Setting"
// @Success 201 {object} http.SettingResponse
// @Failure 400 {object} http.ErrorResponse
// @Router /admin/discounts [post]
func (h Handler) CreateSettingHandler(ctx context.Context, req httptransport.CreateSettingRequest) (httptransport.SettingResponse, error) {
	validFrom, err := parseOptionalTime(req.ValidFrom)
	if err != nil {
		return httptransport.SettingResponse{}, domainerrors.ErrInvalidSettingInput
	}
	validUntil, err := parseOptionalTime(req.ValidUntil)
	if err != nil {
		return httptransport.SettingResponse{}, domainerrors.ErrInvalidSettingInput
	}
	setting, err := h.CreateSetting.Execute(ctx, commands.CreateSettingCommand{
		Name:          req.Name,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinKiosks:     req.MinKiosks,
		MaxKiosks:     req.MaxKiosks,
		IsActive:      req.IsActive,
		ValidFrom:     validFrom,
		ValidUntil:    validUntil,
	})
	if err != nil {
		return httptransport.SettingResponse{}, err
	}
	return httptransport.SettingResponse{
		Status: "success",
		Data:   mapSetting(setting),
	}, nil
}

// @Summary Update a volume discount setting
// @Tags discounts
// @Accept json
// @Produce json
// @Param setting_id path string true "Setting ID"
// @Param request body http.UpdateSettingRequest true "Changes"
// @Success 200 {object} http.SettingResponse
// @Failure 400 {object} http.ErrorResponse
// @Failure 404 {object} http.ErrorResponse
// @Router /admin/discounts/{setting_id} [patch]
func (h Handler) UpdateSettingHandler(ctx context.Context, settingID string, req httptransport.UpdateSettingRequest) (httptransport.SettingResponse, error) {
	cmd := commands.UpdateSettingCommand{
		SettingID:     settingID,
		Name:          req.Name,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinKiosks:     req.MinKiosks,
		MaxKiosks:     req.MaxKiosks,
		ClearMax:      req.ClearMax,
		IsActive:      req.IsActive,
	}
	if req.ValidFrom != nil {
		parsed, err := parseOptionalTime(*req.ValidFrom)
		if err != nil {
			return httptransport.SettingResponse{}, domainerrors.ErrInvalidSettingInput
		}
		cmd.ValidFrom = parsed
	}
	if req.ValidUntil != nil {
		parsed, err := parseOptionalTime(*req.ValidUntil)
		if err != nil {
			return httptransport.SettingResponse{}, domainerrors.ErrInvalidSettingInput
		}
		cmd.ValidUntil = parsed
	}
	setting, err := h.UpdateSetting.Execute(ctx, cmd)
	if err != nil {
		return httptransport.SettingResponse{}, err
	}
	return httptransport.SettingResponse{
		Status: "success",
		Data:   mapSetting(setting),
	}, nil
}

// @Summary List volume discount settings
// @Tags discounts
// @Produce json
// @Param active query bool false "Only active settings"
// @Success 200 {object} http.ListSettingsResponse
// @Router /admin/discounts [get]
func (h Handler) ListSettingsHandler(ctx context.Context, onlyActive bool) (httptransport.ListSettingsResponse, error) {
	items, err := h.ListSettings.Execute(ctx, onlyActive)
	if err != nil {
		return httptransport.ListSettingsResponse{}, err
	}
	resp := httptransport.ListSettingsResponse{
		Status: "success",
		Data:   make([]httptransport.DiscountSettingDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, mapSetting(item))
	}
	return resp, nil
}

func mapKiosk(item entities.Kiosk) httptransport.KioskDTO {
	return httptransport.KioskDTO{
		KioskID:      item.KioskID,
		Name:         item.Name,
		Location:     item.Location,
		Price:        item.Price,
		TrafficLevel: string(item.TrafficLevel),
		Status:       string(item.Status),
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapSetting(item entities.VolumeDiscountSetting) httptransport.DiscountSettingDTO {
	dto := httptransport.DiscountSettingDTO{
		SettingID:     item.SettingID,
		Name:          item.Name,
		DiscountType:  string(item.DiscountType),
		DiscountValue: item.DiscountValue,
		MinKiosks:     item.MinKiosks,
		MaxKiosks:     item.MaxKiosks,
		IsActive:      item.IsActive,
	}
	if item.ValidFrom != nil {
		dto.ValidFrom = item.ValidFrom.UTC().Format(time.RFC3339)
	}
	if item.ValidUntil != nil {
		dto.ValidUntil = item.ValidUntil.UTC().Format(time.RFC3339)
	}
	return dto
}

func mapQuote(quote services.Quote) httptransport.QuoteResponse {
	resp := httptransport.QuoteResponse{
		Status:        "success",
		Lines:         make([]httptransport.QuoteLineDTO, 0, len(quote.Lines)),
		TotalBase:     quote.TotalBase,
		TotalDiscount: quote.TotalDiscount,
		TotalFinal:    quote.TotalFinal,
	}
	for _, line := range quote.Lines {
		resp.Lines = append(resp.Lines, httptransport.QuoteLineDTO{
			KioskID:  line.KioskID,
			Base:     line.Base,
			Discount: line.Discount,
			Final:    line.Final,
			Reason:   line.Reason,
		})
	}
	return resp
}

func parseOptionalTime(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	timestamp := parsed.UTC()
	return &timestamp, nil
}
