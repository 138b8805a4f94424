package memory

import (
	"context"
	"sync"

	"marquee/contexts/kiosk-advertising/campaign-service/domain/entities"
	"marquee/contexts/kiosk-advertising/campaign-service/ports"
)

// ObjectStore records relocation requests instead of touching disk.
type ObjectStore struct {
	mu        sync.Mutex
	relocated []string
	failFor   map[string]error
}

func NewObjectStore() *ObjectStore {
	return &ObjectStore{failFor: make(map[string]error)}
}

func (o *ObjectStore) Relocate(_ context.Context, asset entities.MediaAsset) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err, ok := o.failFor[asset.MediaID]; ok {
		return err
	}
	o.relocated = append(o.relocated, asset.MediaID)
	return nil
}

// FailFor makes Relocate return err for the given media asset.
func (o *ObjectStore) FailFor(mediaID string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failFor[mediaID] = err
}

// Recover clears an injected failure so later relocations succeed.
func (o *ObjectStore) Recover(mediaID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.failFor, mediaID)
}

func (o *ObjectStore) Relocated() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.relocated...)
}

// NotificationSink buffers emitted status changes.
type NotificationSink struct {
	mu     sync.Mutex
	events []ports.StatusChangeEvent
	err    error
}

func NewNotificationSink() *NotificationSink {
	return &NotificationSink{}
}

func (n *NotificationSink) Emit(_ context.Context, event ports.StatusChangeEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)
	return nil
}

// FailWith makes every Emit return err.
func (n *NotificationSink) FailWith(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.err = err
}

func (n *NotificationSink) Events() []ports.StatusChangeEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.StatusChangeEvent(nil), n.events...)
}
