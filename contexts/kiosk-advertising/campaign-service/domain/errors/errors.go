package errors

import "errors"

var (
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrInvalidCampaignInput   = errors.New("invalid campaign input")
	ErrInvalidCampaignDates   = errors.New("campaign end date precedes start date")
	ErrInvalidStateTransition = errors.New("invalid campaign state transition")
	ErrMediaNotFound          = errors.New("media asset not found")
	ErrInvalidMediaTransition = errors.New("invalid media asset state transition")
	ErrMediaAlreadyAttached   = errors.New("media asset already attached to a campaign")
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyKeyConflict = errors.New("idempotency key conflict")
	ErrUnknownTriggerAction   = errors.New("unknown manual trigger action")
)
