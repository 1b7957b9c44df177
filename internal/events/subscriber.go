package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/appetiteclub/concierge/internal/catalog"
	"github.com/appetiteclub/concierge/internal/event"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
)

// CatalogSubscriber listens for catalog change announcements and reloads
// the affected family into the store. Unknown families trigger a full
// reload so a schema-newer producer cannot strand the mirror.
type CatalogSubscriber struct {
	subscriber events.Subscriber
	store      *catalog.Store
	logger     aqm.Logger
}

func NewCatalogSubscriber(subscriber events.Subscriber, store *catalog.Store, logger aqm.Logger) *CatalogSubscriber {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &CatalogSubscriber{
		subscriber: subscriber,
		store:      store,
		logger:     logger,
	}
}

func (s *CatalogSubscriber) Start(ctx context.Context) error {
	s.logger.Info("Starting CatalogSubscriber for topic: " + event.CatalogTopic)

	if err := s.subscriber.Subscribe(ctx, event.CatalogTopic, s.handleEvent); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", event.CatalogTopic, err)
	}

	s.logger.Info("CatalogSubscriber started successfully")
	return nil
}

func (s *CatalogSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.CatalogChangedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Errorf("Failed to unmarshal catalog event: %v", err)
		return nil
	}

	family := catalog.Family(evt.Family)
	if !catalog.ValidFamily(family) {
		s.logger.Infof("Unknown catalog family %q, reloading everything", evt.Family)
		if err := s.store.LoadAll(ctx); err != nil {
			s.logger.Errorf("Full reload failed: %v", err)
			return err
		}
		return nil
	}

	if err := s.store.Load(ctx, family); err != nil {
		s.logger.Errorf("Reload of %s failed: %v", family, err)
		return err
	}

	s.logger.Infof("Reloaded %s after %s", family, evt.EventType)
	return nil
}
