package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	application "marquee/contexts/kiosk-advertising/campaign-service/application"
	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
	"marquee/contexts/kiosk-advertising/campaign-service/ports"
)

// AssetArchiver moves a completed campaign's media assets to archived.
// Re-invoking it for the same campaign is safe: assets already archived
// no longer match the candidate statuses and are skipped, and the status
// update itself is a compare-and-set.
type AssetArchiver struct {
	Media   ports.MediaRepository
	Objects ports.ObjectStore
	Clock   ports.Clock
	// WorkerLimit bounds concurrent object-store calls; CallTimeout
	// boxes each one. Zero values fall back to 4 workers and 30s.
	WorkerLimit int
	CallTimeout time.Duration
	Disabled    bool
	Logger      *slog.Logger
}

type ArchiveResult struct {
	Moved  int
	Failed []string
}

func (a AssetArchiver) ArchiveForCampaign(ctx context.Context, campaignID string) (ArchiveResult, error) {
	logger := application.ResolveLogger(a.Logger)
	if a.Disabled {
		return ArchiveResult{}, nil
	}

	assets, err := a.Media.ListMediaByCampaignAndStatus(ctx, campaignID, entities.ArchivableMediaStatuses())
	if err != nil {
		return ArchiveResult{}, err
	}
	if len(assets) == 0 {
		return ArchiveResult{}, nil
	}

	limit := a.WorkerLimit
	if limit <= 0 {
		limit = 4
	}
	timeout := a.CallTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	now := time.Now().UTC()
	if a.Clock != nil {
		now = a.Clock.Now().UTC()
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result ArchiveResult
	)
	sem := make(chan struct{}, limit)

	for _, asset := range assets {
		asset := asset
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			moved := a.archiveOne(ctx, asset, now, timeout, logger)
			mu.Lock()
			if moved {
				result.Moved++
			} else {
				result.Failed = append(result.Failed, asset.MediaID)
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if result.Moved > 0 || len(result.Failed) > 0 {
		logger.Info("campaign media archived",
			"event", "campaign_media_archived",
			"module", "kiosk-advertising/campaign-service",
			"layer", "worker",
			"campaign_id", campaignID,
			"moved", result.Moved,
			"failed", len(result.Failed),
		)
	}
	return result, nil
}

// archiveOne relocates the backing file first, then flips the status. A
// relocation failure leaves the asset untouched so a later sweep retries
// it; the campaign stays completed and the asset stays non-archived.
func (a AssetArchiver) archiveOne(
	ctx context.Context,
	asset entities.MediaAsset,
	now time.Time,
	timeout time.Duration,
	logger *slog.Logger,
) bool {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := a.Objects.Relocate(callCtx, asset); err != nil {
		logger.Warn("media relocation failed",
			"event", "media_relocation_failed",
			"module", "kiosk-advertising/campaign-service",
			"layer", "worker",
			"media_id", asset.MediaID,
			"campaign_id", asset.CampaignID,
			"error", err.Error(),
		)
		return false
	}

	applied, err := a.Media.CompareAndSetMediaStatus(ctx, asset.MediaID, asset.Status, entities.MediaAssetStatusArchived, now)
	if err != nil {
		logger.Warn("media status update failed",
			"event", "media_status_update_failed",
			"module", "kiosk-advertising/campaign-service",
			"layer", "worker",
			"media_id", asset.MediaID,
			"error", err.Error(),
		)
		return false
	}
	if !applied {
		// Another sweep archived it first; nothing left to do.
		logger.Debug("media already archived",
			"event", "media_already_archived",
			"module", "kiosk-advertising/campaign-service",
			"layer", "worker",
			"media_id", asset.MediaID,
		)
	}
	return true
}
