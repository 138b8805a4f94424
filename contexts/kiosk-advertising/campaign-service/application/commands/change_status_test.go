package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"marquee/contexts/kiosk-advertising/campaign-service/adapters/memory"
	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
	domainerrors "marquee/contexts/kiosk-advertising/campaign-service/domain/errors"
)

func newChangeStatusUseCase(store *memory.Store, sink *memory.NotificationSink) ChangeStatusUseCase {
	return ChangeStatusUseCase{
		Campaigns: store,
		History:   store,
		Sink:      sink,
		Clock:     store,
		IDGen:     store,
	}
}

func seedCampaign(status entities.CampaignStatus) *memory.Store {
	store := memory.NewStore([]entities.Campaign{{
		CampaignID: "c-1",
		Status:     status,
		StartDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
	}}, nil)
	store.SetNow(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	return store
}

func TestChangeStatusSubmit(t *testing.T) {
	store := seedCampaign(entities.CampaignStatusDraft)
	sink := memory.NewNotificationSink()
	uc := newChangeStatusUseCase(store, sink)
	ctx := context.Background()

	err := uc.Execute(ctx, ChangeStatusCommand{
		CampaignID: "c-1",
		ActorID:    "adv-1",
		Action:     StatusActionSubmit,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	campaign, _ := store.GetCampaign(ctx, "c-1")
	if campaign.Status != entities.CampaignStatusPending {
		t.Fatalf("expected pending, got %s", campaign.Status)
	}

	log := store.StateLog()
	if len(log) != 1 || log[0].ChangedBy != "adv-1" {
		t.Fatalf("unexpected history: %+v", log)
	}
	if len(sink.Events()) != 1 {
		t.Fatalf("expected one notification, got %d", len(sink.Events()))
	}
}

func TestChangeStatusPauseResume(t *testing.T) {
	store := seedCampaign(entities.CampaignStatusActive)
	uc := newChangeStatusUseCase(store, memory.NewNotificationSink())
	ctx := context.Background()

	if err := uc.Execute(ctx, ChangeStatusCommand{CampaignID: "c-1", Action: StatusActionPause}); err != nil {
		t.Fatalf("pause failed: %v", err)
	}

	// Paused campaigns can only resume; withdrawal is not allowed.
	err := uc.Execute(ctx, ChangeStatusCommand{CampaignID: "c-1", Action: StatusActionCancel})
	if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid transition for paused cancel, got %v", err)
	}

	if err := uc.Execute(ctx, ChangeStatusCommand{CampaignID: "c-1", Action: StatusActionResume}); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	campaign, _ := store.GetCampaign(ctx, "c-1")
	if campaign.Status != entities.CampaignStatusActive {
		t.Fatalf("expected active after resume, got %s", campaign.Status)
	}
}

func TestChangeStatusInvalidEdges(t *testing.T) {
	cases := []struct {
		from   entities.CampaignStatus
		action ChangeStatusAction
	}{
		{entities.CampaignStatusDraft, StatusActionPause},
		{entities.CampaignStatusCompleted, StatusActionCancel},
		{entities.CampaignStatusRejected, StatusActionSubmit},
		{entities.CampaignStatusCancelled, StatusActionResume},
	}
	for _, tc := range cases {
		store := seedCampaign(tc.from)
		uc := newChangeStatusUseCase(store, memory.NewNotificationSink())

		err := uc.Execute(context.Background(), ChangeStatusCommand{CampaignID: "c-1", Action: tc.action})
		if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
			t.Fatalf("%s + %s: expected invalid transition, got %v", tc.from, tc.action, err)
		}
	}
}

func TestChangeStatusUnknownCampaign(t *testing.T) {
	store := seedCampaign(entities.CampaignStatusDraft)
	uc := newChangeStatusUseCase(store, memory.NewNotificationSink())

	err := uc.Execute(context.Background(), ChangeStatusCommand{CampaignID: "ghost", Action: StatusActionSubmit})
	if !errors.Is(err, domainerrors.ErrCampaignNotFound) {
		t.Fatalf("expected campaign not found, got %v", err)
	}
}

func TestChangeStatusSinkFailureIsNonFatal(t *testing.T) {
	store := seedCampaign(entities.CampaignStatusDraft)
	sink := memory.NewNotificationSink()
	sink.FailWith(errors.New("bus down"))
	uc := newChangeStatusUseCase(store, sink)
	ctx := context.Background()

	if err := uc.Execute(ctx, ChangeStatusCommand{CampaignID: "c-1", Action: StatusActionSubmit}); err != nil {
		t.Fatalf("sink failure must not fail the command: %v", err)
	}
	campaign, _ := store.GetCampaign(ctx, "c-1")
	if campaign.Status != entities.CampaignStatusPending {
		t.Fatalf("transition should stand, got %s", campaign.Status)
	}
}
