package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type KioskStatus string
type TrafficLevel string

const (
	KioskStatusActive      KioskStatus = "active"
	KioskStatusInactive    KioskStatus = "inactive"
	KioskStatusMaintenance KioskStatus = "maintenance"

	TrafficLevelLow    TrafficLevel = "low"
	TrafficLevelMedium TrafficLevel = "medium"
	TrafficLevelHigh   TrafficLevel = "high"
)

// Kiosk is a physical display unit. Read-only input to pricing; campaign
// processing never mutates it.
type Kiosk struct {
	KioskID      string
	Name         string
	Location     string
	Price        decimal.Decimal
	TrafficLevel TrafficLevel
	Status       KioskStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func IsSupportedKioskStatus(value KioskStatus) bool {
	switch value {
	case KioskStatusActive, KioskStatusInactive, KioskStatusMaintenance:
		return true
	default:
		return false
	}
}

func IsSupportedTrafficLevel(value TrafficLevel) bool {
	switch value {
	case TrafficLevelLow, TrafficLevelMedium, TrafficLevelHigh:
		return true
	default:
		return false
	}
}
