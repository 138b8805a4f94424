package commands

import (
	"context"
	"log/slog"
	"strings"

	application "marquee/contexts/kiosk-advertising/campaign-service/application"
	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
	domainerrors "marquee/contexts/kiosk-advertising/campaign-service/domain/errors"
	"marquee/contexts/kiosk-advertising/campaign-service/ports"
)

type ChangeStatusAction string

const (
	StatusActionSubmit ChangeStatusAction = "submit"
	StatusActionPause  ChangeStatusAction = "pause"
	StatusActionResume ChangeStatusAction = "resume"
	StatusActionReject ChangeStatusAction = "reject"
	StatusActionCancel ChangeStatusAction = "cancel"
)

type ChangeStatusCommand struct {
	CampaignID string
	ActorID    string
	Action     ChangeStatusAction
	Reason     string
}

// ChangeStatusUseCase drives the externally triggered edges of the
// campaign lifecycle (submit, moderation, pause/resume, withdrawal). The
// two time-driven edges belong to the lifecycle reconciler; both go
// through the same transition table and the same compare-and-set, so an
// external action racing a reconciliation pass cannot double-apply.
type ChangeStatusUseCase struct {
	Campaigns ports.CampaignRepository
	History   ports.HistoryRepository
	Sink      ports.NotificationSink
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return err
	}

	now := uc.Clock.Now().UTC()
	from := campaign.Status
	to, err := targetStatus(cmd.Action)
	if err != nil {
		return err
	}
	if !entities.CanTransition(from, to) {
		return domainerrors.ErrInvalidStateTransition
	}

	applied, err := uc.Campaigns.CompareAndSetStatus(ctx, campaign.CampaignID, from, to, now)
	if err != nil {
		return err
	}
	if !applied {
		return domainerrors.ErrInvalidStateTransition
	}

	historyID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	if err := uc.History.AppendState(ctx, entities.StateHistory{
		HistoryID:    historyID,
		CampaignID:   campaign.CampaignID,
		FromState:    from,
		ToState:      to,
		ChangedBy:    strings.TrimSpace(cmd.ActorID),
		ChangeReason: strings.TrimSpace(cmd.Reason),
		CreatedAt:    now,
	}); err != nil {
		return err
	}

	if uc.Sink != nil {
		if err := uc.Sink.Emit(ctx, ports.StatusChangeEvent{
			CampaignID: campaign.CampaignID,
			OldStatus:  from,
			NewStatus:  to,
			OccurredAt: now,
		}); err != nil {
			logger.Warn("status notification dropped",
				"event", "campaign_notification_dropped",
				"module", "kiosk-advertising/campaign-service",
				"layer", "application",
				"campaign_id", campaign.CampaignID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("campaign state changed",
		"event", "campaign_state_changed",
		"module", "kiosk-advertising/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"from_status", string(from),
		"to_status", string(to),
	)
	return nil
}

func targetStatus(action ChangeStatusAction) (entities.CampaignStatus, error) {
	switch action {
	case StatusActionSubmit:
		return entities.CampaignStatusPending, nil
	case StatusActionPause:
		return entities.CampaignStatusPaused, nil
	case StatusActionResume:
		return entities.CampaignStatusActive, nil
	case StatusActionReject:
		return entities.CampaignStatusRejected, nil
	case StatusActionCancel:
		return entities.CampaignStatusCancelled, nil
	default:
		return "", domainerrors.ErrInvalidStateTransition
	}
}
