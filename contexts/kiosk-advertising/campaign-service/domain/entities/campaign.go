package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusPending   CampaignStatus = "pending"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusRejected  CampaignStatus = "rejected"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

// Campaign is a scheduled advertising run across one or more kiosks.
// StartDate and EndDate are inclusive calendar dates; both are stored as
// midnight UTC and compared against "today" in the configured business
// timezone. KioskIDs order is significant: it decides volume discount
// tiering and is never re-sorted.
type Campaign struct {
	CampaignID   string
	AdvertiserID string
	Name         string
	Description  string
	Status       CampaignStatus
	StartDate    time.Time
	EndDate      time.Time
	Budget       decimal.Decimal
	TotalCost    decimal.Decimal
	KioskIDs     []string
	MediaAssetID string
	ReviewFlag   bool
	ReviewReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ActivatedAt  *time.Time
	CompletedAt  *time.Time
}

// campaignTransitions is the closed transition graph. Every status change,
// time-driven or externally triggered, must follow one of these edges.
var campaignTransitions = map[CampaignStatus][]CampaignStatus{
	CampaignStatusDraft:   {CampaignStatusPending, CampaignStatusRejected, CampaignStatusCancelled},
	CampaignStatusPending: {CampaignStatusActive, CampaignStatusRejected, CampaignStatusCancelled},
	CampaignStatusActive:  {CampaignStatusCompleted, CampaignStatusPaused, CampaignStatusCancelled},
	CampaignStatusPaused:  {CampaignStatusActive},
}

func CanTransition(from, to CampaignStatus) bool {
	for _, allowed := range campaignTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func IsSupportedCampaignStatus(value CampaignStatus) bool {
	switch value {
	case CampaignStatusDraft, CampaignStatusPending, CampaignStatusActive,
		CampaignStatusPaused, CampaignStatusCompleted, CampaignStatusRejected,
		CampaignStatusCancelled:
		return true
	default:
		return false
	}
}

// DueTransition returns the single time-driven edge owed to the campaign
// given today's business date, or false when none is due. A pending
// campaign whose whole window already elapsed still only advances to
// active here; completion is picked up on a later sweep once the campaign
// is observed as active.
func (c Campaign) DueTransition(today time.Time) (CampaignStatus, bool) {
	switch c.Status {
	case CampaignStatusPending:
		if !DateOnly(c.StartDate).After(DateOnly(today)) {
			return CampaignStatusActive, true
		}
	case CampaignStatusActive:
		if DateOnly(c.EndDate).Before(DateOnly(today)) {
			return CampaignStatusCompleted, true
		}
	}
	return "", false
}

func (c Campaign) ValidateDates() bool {
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return false
	}
	return !DateOnly(c.EndDate).Before(DateOnly(c.StartDate))
}

// BusinessDate maps an instant onto the calendar date of the reference
// timezone, normalized to midnight UTC so date comparisons are exact.
func BusinessDate(now time.Time, loc *time.Location) time.Time {
	year, month, day := now.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func DateOnly(value time.Time) time.Time {
	year, month, day := value.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

type StateHistory struct {
	HistoryID    string
	CampaignID   string
	FromState    CampaignStatus
	ToState      CampaignStatus
	ChangedBy    string
	ChangeReason string
	CreatedAt    time.Time
}
