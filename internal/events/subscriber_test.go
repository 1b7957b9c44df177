package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/appetiteclub/concierge/internal/catalog"
	"github.com/appetiteclub/concierge/internal/event"
	"github.com/google/uuid"
)

func deliverCatalogEvent(t *testing.T, sub *FakeSubscriber, evt event.CatalogChangedEvent) {
	t.Helper()
	payload, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	if err := sub.Deliver(context.Background(), event.CatalogTopic, payload); err != nil {
		t.Fatalf("deliver event: %v", err)
	}
}

func TestCatalogSubscriberReloadsFamily(t *testing.T) {
	loader := NewCountingLoader()
	store := catalog.NewStore(loader, nil, nil)
	fake := NewFakeSubscriber()

	sub := NewCatalogSubscriber(fake, store, nil)
	if err := sub.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deliverCatalogEvent(t, fake, event.CatalogChangedEvent{
		EventType:  event.EventCatalogItemUpdated,
		OccurredAt: time.Now().UTC(),
		Family:     string(catalog.FamilyItems),
		EntityID:   uuid.NewString(),
	})

	if got := loader.Count(catalog.FamilyItems); got != 1 {
		t.Errorf("items fetched %d times, want 1", got)
	}
	if loader.Count(catalog.FamilyServices) != 0 {
		t.Error("an item event must not reload other families")
	}
}

func TestCatalogSubscriberUnknownFamilyReloadsAll(t *testing.T) {
	loader := NewCountingLoader()
	store := catalog.NewStore(loader, nil, nil)
	fake := NewFakeSubscriber()

	sub := NewCatalogSubscriber(fake, store, nil)
	if err := sub.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deliverCatalogEvent(t, fake, event.CatalogChangedEvent{
		EventType: "catalog.pricebook.updated",
		Family:    "pricebooks",
	})

	for _, family := range catalog.Families() {
		if got := loader.Count(family); got != 1 {
			t.Errorf("family %s fetched %d times, want 1", family, got)
		}
	}
}

func TestCatalogSubscriberIgnoresMalformedPayload(t *testing.T) {
	loader := NewCountingLoader()
	store := catalog.NewStore(loader, nil, nil)
	fake := NewFakeSubscriber()

	sub := NewCatalogSubscriber(fake, store, nil)
	if err := sub.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Malformed messages are dropped, not redelivered forever.
	if err := fake.Deliver(context.Background(), event.CatalogTopic, []byte("{not json")); err != nil {
		t.Errorf("Deliver(malformed) error = %v, want nil", err)
	}
	if total := loader.TotalCalls(); total != 0 {
		t.Errorf("loader called %d times after malformed payload", total)
	}
}
