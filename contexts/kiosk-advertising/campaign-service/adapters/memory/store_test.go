package memory

import (
	"context"
	"testing"
	"time"

	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
)

func TestCompareAndSetStatusKeepsFirstActivation(t *testing.T) {
	store := NewStore([]entities.Campaign{{
		CampaignID: "c-1",
		Status:     entities.CampaignStatusPending,
		StartDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}}, nil)
	ctx := context.Background()

	first := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	applied, err := store.CompareAndSetStatus(ctx, "c-1", entities.CampaignStatusPending, entities.CampaignStatusActive, first)
	if err != nil || !applied {
		t.Fatalf("activation failed: applied=%v err=%v", applied, err)
	}

	pausedAt := first.Add(24 * time.Hour)
	if applied, err = store.CompareAndSetStatus(ctx, "c-1", entities.CampaignStatusActive, entities.CampaignStatusPaused, pausedAt); err != nil || !applied {
		t.Fatalf("pause failed: applied=%v err=%v", applied, err)
	}
	resumedAt := pausedAt.Add(24 * time.Hour)
	if applied, err = store.CompareAndSetStatus(ctx, "c-1", entities.CampaignStatusPaused, entities.CampaignStatusActive, resumedAt); err != nil || !applied {
		t.Fatalf("resume failed: applied=%v err=%v", applied, err)
	}

	campaign, err := store.GetCampaign(ctx, "c-1")
	if err != nil {
		t.Fatalf("get campaign failed: %v", err)
	}
	if campaign.ActivatedAt == nil || !campaign.ActivatedAt.Equal(first) {
		t.Fatalf("resume must not reset the first activation timestamp, got %v", campaign.ActivatedAt)
	}
	if !campaign.UpdatedAt.Equal(resumedAt) {
		t.Fatalf("expected updated_at to follow the resume, got %v", campaign.UpdatedAt)
	}
}

func TestFindArchivalBacklogOnlyCompletedCampaigns(t *testing.T) {
	completedAt := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	store := NewStore([]entities.Campaign{
		{CampaignID: "c-done", Status: entities.CampaignStatusCompleted, CompletedAt: &completedAt},
		{CampaignID: "c-live", Status: entities.CampaignStatusActive},
	}, []entities.MediaAsset{
		{MediaID: "m-1", CampaignID: "c-done", Status: entities.MediaAssetStatusActive},
		{MediaID: "m-2", CampaignID: "c-done", Status: entities.MediaAssetStatusArchived},
		{MediaID: "m-3", CampaignID: "c-live", Status: entities.MediaAssetStatusApproved},
	})
	ctx := context.Background()

	ids, err := store.FindArchivalBacklog(ctx, 10)
	if err != nil {
		t.Fatalf("backlog query failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "c-done" {
		t.Fatalf("only completed campaigns with non-archived assets belong in the backlog, got %v", ids)
	}
}
