package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"marquee/contexts/kiosk-advertising/campaign-service/adapters/memory"
	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
)

func TestArchiverIsIdempotent(t *testing.T) {
	store := memory.NewStore(nil, []entities.MediaAsset{
		{MediaID: "m-1", CampaignID: "c-1", Status: entities.MediaAssetStatusActive},
		{MediaID: "m-2", CampaignID: "c-1", Status: entities.MediaAssetStatusApproved},
	})
	store.SetNow(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	objects := memory.NewObjectStore()
	archiver := AssetArchiver{Media: store, Objects: objects, Clock: store}
	ctx := context.Background()

	first, err := archiver.ArchiveForCampaign(ctx, "c-1")
	if err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if first.Moved != 2 || len(first.Failed) != 0 {
		t.Fatalf("expected 2 moved, got %+v", first)
	}

	second, err := archiver.ArchiveForCampaign(ctx, "c-1")
	if err != nil {
		t.Fatalf("second archive failed: %v", err)
	}
	if second.Moved != 0 || len(second.Failed) != 0 {
		t.Fatalf("second sweep should find nothing to do, got %+v", second)
	}
}

func TestArchiverLeavesFailedAssetsForRetry(t *testing.T) {
	store := memory.NewStore(nil, []entities.MediaAsset{
		{MediaID: "m-ok", CampaignID: "c-1", Status: entities.MediaAssetStatusActive},
		{MediaID: "m-stuck", CampaignID: "c-1", Status: entities.MediaAssetStatusActive},
	})
	store.SetNow(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	objects := memory.NewObjectStore()
	objects.FailFor("m-stuck", errors.New("bucket unreachable"))
	archiver := AssetArchiver{Media: store, Objects: objects, Clock: store}
	ctx := context.Background()

	result, err := archiver.ArchiveForCampaign(ctx, "c-1")
	if err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if result.Moved != 1 {
		t.Fatalf("healthy asset should still archive, got %+v", result)
	}
	if len(result.Failed) != 1 || result.Failed[0] != "m-stuck" {
		t.Fatalf("expected m-stuck to fail, got %v", result.Failed)
	}

	// The failed asset keeps its status so a later sweep retries it.
	stuck, _ := store.GetMedia(ctx, "m-stuck")
	if stuck.Status != entities.MediaAssetStatusActive {
		t.Fatalf("failed asset must keep its status, got %s", stuck.Status)
	}
	ok, _ := store.GetMedia(ctx, "m-ok")
	if ok.Status != entities.MediaAssetStatusArchived {
		t.Fatalf("healthy asset should be archived, got %s", ok.Status)
	}
}

func TestArchiverCountsLostRaceAsArchived(t *testing.T) {
	store := memory.NewStore(nil, []entities.MediaAsset{
		{MediaID: "m-1", CampaignID: "c-1", Status: entities.MediaAssetStatusActive},
	})
	store.SetNow(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	objects := memory.NewObjectStore()
	archiver := AssetArchiver{Media: store, Objects: objects, Clock: store}
	ctx := context.Background()

	// A concurrent sweep archives the asset between listing and CAS.
	if _, err := store.CompareAndSetMediaStatus(ctx, "m-1", entities.MediaAssetStatusActive, entities.MediaAssetStatusArchived, store.Now()); err != nil {
		t.Fatalf("setup CAS failed: %v", err)
	}
	// Relisting still returned the stale row; simulate by calling the
	// per-asset path through a fresh full sweep of an already-archived
	// campaign: nothing matches, nothing fails.
	result, err := archiver.ArchiveForCampaign(ctx, "c-1")
	if err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if result.Moved != 0 || len(result.Failed) != 0 {
		t.Fatalf("already archived campaign should be a clean no-op, got %+v", result)
	}
}

func TestArchiverDisabled(t *testing.T) {
	store := memory.NewStore(nil, []entities.MediaAsset{
		{MediaID: "m-1", CampaignID: "c-1", Status: entities.MediaAssetStatusActive},
	})
	store.SetNow(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	archiver := AssetArchiver{Media: store, Objects: memory.NewObjectStore(), Clock: store, Disabled: true}

	result, err := archiver.ArchiveForCampaign(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("disabled archiver errored: %v", err)
	}
	if result.Moved != 0 {
		t.Fatalf("disabled archiver must not touch assets, got %+v", result)
	}

	asset, _ := store.GetMedia(context.Background(), "m-1")
	if asset.Status != entities.MediaAssetStatusActive {
		t.Fatalf("asset should be untouched, got %s", asset.Status)
	}
}
