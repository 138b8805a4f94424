package http

import "github.com/shopspring/decimal"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type KioskDTO struct {
	KioskID      string          `json:"kiosk_id"`
	Name         string          `json:"name"`
	Location     string          `json:"location"`
	Price        decimal.Decimal `json:"price"`
	TrafficLevel string          `json:"traffic_level"`
	Status       string          `json:"status"`
	CreatedAt    string          `json:"created_at"`
}

type RegisterKioskRequest struct {
	Name         string          `json:"name"`
	Location     string          `json:"location"`
	Price        decimal.Decimal `json:"price"`
	TrafficLevel string          `json:"traffic_level"`
	Status       string          `json:"status"`
}

type RegisterKioskResponse struct {
	Status string   `json:"status"`
	Data   KioskDTO `json:"data"`
}

type ListKiosksResponse struct {
	Status string     `json:"status"`
	Data   []KioskDTO `json:"data"`
}

type GetKioskResponse struct {
	Status string   `json:"status"`
	Data   KioskDTO `json:"data"`
}

type DiscountSettingDTO struct {
	SettingID     string          `json:"setting_id"`
	Name          string          `json:"name"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MinKiosks     int             `json:"min_kiosks"`
	MaxKiosks     *int            `json:"max_kiosks,omitempty"`
	IsActive      bool            `json:"is_active"`
	ValidFrom     string          `json:"valid_from,omitempty"`
	ValidUntil    string          `json:"valid_until,omitempty"`
}

type CreateSettingRequest struct {
	Name          string          `json:"name"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MinKiosks     int             `json:"min_kiosks"`
	MaxKiosks     *int            `json:"max_kiosks"`
	IsActive      bool            `json:"is_active"`
	ValidFrom     string          `json:"valid_from"`
	ValidUntil    string          `json:"valid_until"`
}

type UpdateSettingRequest struct {
	Name          *string          `json:"name"`
	DiscountType  *string          `json:"discount_type"`
	DiscountValue *decimal.Decimal `json:"discount_value"`
	MinKiosks     *int             `json:"min_kiosks"`
	MaxKiosks     *int             `json:"max_kiosks"`
	ClearMax      bool             `json:"clear_max"`
	IsActive      *bool            `json:"is_active"`
	ValidFrom     *string          `json:"valid_from"`
	ValidUntil    *string          `json:"valid_until"`
}

type SettingResponse struct {
	Status string             `json:"status"`
	Data   DiscountSettingDTO `json:"data"`
}

type ListSettingsResponse struct {
	Status string               `json:"status"`
	Data   []DiscountSettingDTO `json:"data"`
}

type QuoteRequest struct {
	KioskIDs []string `json:"kiosk_ids"`
}

type QuoteLineDTO struct {
	KioskID  string          `json:"kiosk_id"`
	Base     decimal.Decimal `json:"base"`
	Discount decimal.Decimal `json:"discount"`
	Final    decimal.Decimal `json:"final"`
	Reason   string          `json:"reason,omitempty"`
}

type QuoteResponse struct {
	Status        string          `json:"status"`
	Lines         []QuoteLineDTO  `json:"lines"`
	TotalBase     decimal.Decimal `json:"total_base"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TotalFinal    decimal.Decimal `json:"total_final"`
}
