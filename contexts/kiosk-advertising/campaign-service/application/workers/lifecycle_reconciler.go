package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	application "marquee/contexts/kiosk-advertising/campaign-service/application"
	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
	domainerrors "marquee/contexts/kiosk-advertising/campaign-service/domain/errors"
	"marquee/contexts/kiosk-advertising/campaign-service/ports"

	"github.com/google/uuid"
)

// ReconciliationSummary is the outcome of one pass, also surfaced by the
// manual trigger endpoint.
type ReconciliationSummary struct {
	CampaignsFound        int
	CampaignsTransitioned int
	AssetsArchived        int
	Errors                []string
}

// LifecycleReconciler sweeps campaigns due for their two time-driven
// edges: pending campaigns whose start date has been reached become
// active, active campaigns whose end date has passed become completed.
// Each campaign advances at most one edge per pass.
//
// Correctness under overlapping passes (a slow pass plus a new tick, or
// multiple process instances) rests on the repository's per-campaign
// compare-and-set, never on pass serialization.
type LifecycleReconciler struct {
	Campaigns ports.CampaignRepository
	History   ports.HistoryRepository
	Archiver  AssetArchiver
	Sink      ports.NotificationSink
	Clock     ports.Clock
	// Location is the business timezone every date comparison uses. It
	// is an explicit dependency, never the host's local zone.
	Location  *time.Location
	BatchSize int
	Disabled  bool
	Logger    *slog.Logger
}

func (r LifecycleReconciler) RunOnce(ctx context.Context) (ReconciliationSummary, error) {
	logger := application.ResolveLogger(r.Logger)
	if r.Disabled {
		return ReconciliationSummary{}, nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	today := entities.BusinessDate(now, loc)

	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	summary := ReconciliationSummary{}

	// Retry archival left over from earlier passes before taking on new
	// transitions: a completed campaign never re-enters the due sweep, so
	// assets stranded by an object store outage are only picked up here.
	r.retryArchivalBacklog(ctx, limit, &summary, logger)

	due, err := r.Campaigns.FindDueCampaigns(ctx, today, limit)
	if err != nil {
		logger.Error("due campaign sweep failed",
			"event", "campaign_sweep_failed",
			"module", "kiosk-advertising/campaign-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return summary, err
	}
	summary.CampaignsFound = len(due)

	for _, campaign := range due {
		if err := r.reconcileOne(ctx, campaign, today, now, &summary, logger); err != nil {
			// Per-campaign failures never block the rest of the pass;
			// the campaign is retried on the next sweep.
			summary.Errors = append(summary.Errors, fmt.Sprintf("campaign %s: %v", campaign.CampaignID, err))
		}
	}

	if summary.CampaignsTransitioned > 0 || len(summary.Errors) > 0 {
		logger.Info("reconciliation pass completed",
			"event", "campaign_reconciliation_completed",
			"module", "kiosk-advertising/campaign-service",
			"layer", "worker",
			"found", summary.CampaignsFound,
			"transitioned", summary.CampaignsTransitioned,
			"assets_archived", summary.AssetsArchived,
			"errors", len(summary.Errors),
		)
	}
	return summary, nil
}

func (r LifecycleReconciler) retryArchivalBacklog(
	ctx context.Context,
	limit int,
	summary *ReconciliationSummary,
	logger *slog.Logger,
) {
	backlog, err := r.Campaigns.FindArchivalBacklog(ctx, limit)
	if err != nil {
		logger.Error("archival backlog sweep failed",
			"event", "campaign_archival_backlog_failed",
			"module", "kiosk-advertising/campaign-service",
			"layer", "worker",
			"error", err.Error(),
		)
		summary.Errors = append(summary.Errors, fmt.Sprintf("archival backlog: %v", err))
		return
	}

	for _, campaignID := range backlog {
		result, err := r.Archiver.ArchiveForCampaign(ctx, campaignID)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("campaign %s: %v", campaignID, err))
			continue
		}
		summary.AssetsArchived += result.Moved
		for _, mediaID := range result.Failed {
			summary.Errors = append(summary.Errors, fmt.Sprintf("asset %s: archival failed", mediaID))
		}
		if result.Moved > 0 {
			logger.Info("archival backlog drained",
				"event", "campaign_archival_retried",
				"module", "kiosk-advertising/campaign-service",
				"layer", "worker",
				"campaign_id", campaignID,
				"assets_archived", result.Moved,
			)
		}
	}
}

func (r LifecycleReconciler) reconcileOne(
	ctx context.Context,
	campaign entities.Campaign,
	today time.Time,
	now time.Time,
	summary *ReconciliationSummary,
	logger *slog.Logger,
) error {
	next, due := campaign.DueTransition(today)
	if !due {
		// Externally transitioned between fetch and processing, or the
		// query over-fetched; paused, rejected and cancelled campaigns
		// never re-enter the time-driven path.
		return nil
	}
	if !entities.CanTransition(campaign.Status, next) {
		return domainerrors.ErrInvalidStateTransition
	}

	applied, err := r.Campaigns.CompareAndSetStatus(ctx, campaign.CampaignID, campaign.Status, next, now)
	if err != nil {
		if errors.Is(err, domainerrors.ErrCampaignNotFound) {
			// The record vanished under us. Surface it for manual review
			// rather than silently dropping it.
			if flagErr := r.Campaigns.FlagForReview(ctx, campaign.CampaignID, "campaign missing during reconciliation"); flagErr != nil {
				logger.Error("review flag failed",
					"event", "campaign_review_flag_failed",
					"module", "kiosk-advertising/campaign-service",
					"layer", "worker",
					"campaign_id", campaign.CampaignID,
					"error", flagErr.Error(),
				)
			}
		}
		return err
	}
	if !applied {
		// Another pass or an external actor won the race; skip.
		logger.Debug("campaign transition skipped",
			"event", "campaign_transition_skipped",
			"module", "kiosk-advertising/campaign-service",
			"layer", "worker",
			"campaign_id", campaign.CampaignID,
			"expected_status", string(campaign.Status),
		)
		return nil
	}
	summary.CampaignsTransitioned++

	if r.History != nil {
		if err := r.appendHistory(ctx, campaign, next, now); err != nil {
			logger.Warn("state history append failed",
				"event", "campaign_history_append_failed",
				"module", "kiosk-advertising/campaign-service",
				"layer", "worker",
				"campaign_id", campaign.CampaignID,
				"error", err.Error(),
			)
		}
	}

	if r.Sink != nil {
		if err := r.Sink.Emit(ctx, ports.StatusChangeEvent{
			CampaignID: campaign.CampaignID,
			OldStatus:  campaign.Status,
			NewStatus:  next,
			OccurredAt: now,
		}); err != nil {
			// Best-effort by contract: log and move on.
			logger.Warn("status notification dropped",
				"event", "campaign_notification_dropped",
				"module", "kiosk-advertising/campaign-service",
				"layer", "worker",
				"campaign_id", campaign.CampaignID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("campaign transitioned",
		"event", "campaign_transitioned",
		"module", "kiosk-advertising/campaign-service",
		"layer", "worker",
		"campaign_id", campaign.CampaignID,
		"from_status", string(campaign.Status),
		"to_status", string(next),
	)

	if next == entities.CampaignStatusCompleted {
		result, err := r.Archiver.ArchiveForCampaign(ctx, campaign.CampaignID)
		if err != nil {
			return err
		}
		summary.AssetsArchived += result.Moved
		for _, mediaID := range result.Failed {
			summary.Errors = append(summary.Errors, fmt.Sprintf("asset %s: archival failed", mediaID))
		}
	}
	return nil
}

func (r LifecycleReconciler) appendHistory(
	ctx context.Context,
	campaign entities.Campaign,
	next entities.CampaignStatus,
	now time.Time,
) error {
	reason := "start_date_reached"
	if next == entities.CampaignStatusCompleted {
		reason = "end_date_passed"
	}
	return r.History.AppendState(ctx, entities.StateHistory{
		HistoryID:    uuid.NewString(),
		CampaignID:   campaign.CampaignID,
		FromState:    campaign.Status,
		ToState:      next,
		ChangedBy:    "system",
		ChangeReason: reason,
		CreatedAt:    now,
	})
}
