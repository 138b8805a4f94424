package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"marquee/contexts/kiosk-advertising/campaign-service/ports"
	"marquee/internal/shared/events"
)

// Bus is the event bus adapter behind campaign notifications.
// Current implementation is in-process publish/subscribe while runtime wiring
// is finalized for external brokers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan events.Envelope
	logger      *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[string][]chan events.Envelope),
		logger:      logger,
	}
}

func (b *Bus) Publish(ctx context.Context, topic string, event events.Envelope) error {
	b.mu.RLock()
	subs := append([]chan events.Envelope(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub <- event:
		default:
			if b.logger != nil {
				b.logger.Warn("dropping event for slow subscriber",
					"event", "bus_publish_drop",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"topic", topic,
					"event_id", event.EventID,
				)
			}
		}
	}

	if b.logger != nil {
		b.logger.Info("event published",
			"event", "bus_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
	}
	return nil
}

func (b *Bus) Subscribe(
	ctx context.Context,
	topic string,
	handler func(context.Context, events.Envelope) error,
) error {
	ch := make(chan events.Envelope, 128)

	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				b.removeSubscriber(topic, ch)
				return
			case event := <-ch:
				if err := handler(ctx, event); err != nil && b.logger != nil {
					b.logger.Error("consumer handler failed",
						"event", "bus_consume_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", topic,
						"event_id", event.EventID,
						"event_type", event.EventType,
						"error", err.Error(),
					)
				}
			}
		}
	}()
	return nil
}

func (b *Bus) removeSubscriber(topic string, target chan events.Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.subscribers[topic]
	if len(items) == 0 {
		return
	}
	filtered := make([]chan events.Envelope, 0, len(items))
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	b.subscribers[topic] = filtered
}

// TopicCampaignStatus carries campaign lifecycle notifications.
const TopicCampaignStatus = "kiosk-advertising.campaign.status"

type statusChangePayload struct {
	CampaignID string `json:"campaign_id"`
	OldStatus  string `json:"old_status"`
	NewStatus  string `json:"new_status"`
	OccurredAt string `json:"occurred_at"`
}

// StatusSink adapts an event publisher to the campaign notification
// port. Delivery is best-effort by contract: the caller logs and
// discards any error.
type StatusSink struct {
	Publisher ports.EventPublisher
	Source    string
	NewID     func() string
	Version   int
}

func (s StatusSink) Emit(ctx context.Context, event ports.StatusChangeEvent) error {
	payload, err := json.Marshal(statusChangePayload{
		CampaignID: event.CampaignID,
		OldStatus:  string(event.OldStatus),
		NewStatus:  string(event.NewStatus),
		OccurredAt: event.OccurredAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	eventID := ""
	if s.NewID != nil {
		eventID = s.NewID()
	}
	version := s.Version
	if version <= 0 {
		version = 1
	}
	return s.Publisher.Publish(ctx, TopicCampaignStatus, events.Envelope{
		EventID:       eventID,
		EventType:     "campaign.status.changed",
		OccurredAt:    event.OccurredAt.UTC(),
		SourceService: s.Source,
		SchemaVersion: version,
		PartitionKey:  event.CampaignID,
		Data:          payload,
	})
}
