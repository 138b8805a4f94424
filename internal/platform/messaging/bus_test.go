package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
	"marquee/contexts/kiosk-advertising/campaign-service/ports"
	"marquee/internal/shared/events"
)

// capturePublisher records what the sink hands to the publisher port.
type capturePublisher struct {
	topic    string
	envelope events.Envelope
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event events.Envelope) error {
	p.topic = topic
	p.envelope = event
	return nil
}

func TestStatusSinkPublishesEnvelope(t *testing.T) {
	publisher := &capturePublisher{}
	sink := StatusSink{
		Publisher: publisher,
		Source:    "marquee",
		NewID:     func() string { return "evt-1" },
	}
	occurredAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	err := sink.Emit(context.Background(), ports.StatusChangeEvent{
		CampaignID: "c-1",
		OldStatus:  entities.CampaignStatusPending,
		NewStatus:  entities.CampaignStatusActive,
		OccurredAt: occurredAt,
	})
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	if publisher.topic != TopicCampaignStatus {
		t.Fatalf("expected topic %s, got %s", TopicCampaignStatus, publisher.topic)
	}
	envelope := publisher.envelope
	if envelope.EventID != "evt-1" || envelope.EventType != "campaign.status.changed" {
		t.Fatalf("unexpected envelope header: %+v", envelope)
	}
	if envelope.PartitionKey != "c-1" || envelope.SchemaVersion != 1 {
		t.Fatalf("unexpected partitioning: %+v", envelope)
	}

	var payload statusChangePayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		t.Fatalf("payload decode failed: %v", err)
	}
	if payload.CampaignID != "c-1" || payload.OldStatus != "pending" || payload.NewStatus != "active" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestBusDeliversToSubscriber(t *testing.T) {
	bus := NewBus(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan events.Envelope, 1)
	if err := bus.Subscribe(ctx, TopicCampaignStatus, func(_ context.Context, event events.Envelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	sent := events.Envelope{EventID: "evt-2", EventType: "campaign.status.changed"}
	if err := bus.Publish(ctx, TopicCampaignStatus, sent); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case event := <-received:
		if event.EventID != sent.EventID {
			t.Fatalf("expected %s, got %s", sent.EventID, event.EventID)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the event")
	}
}
