package event

import "time"

const (
	CatalogTopic = "catalog.changed"

	EventCatalogItemCreated  = "catalog.item.created"
	EventCatalogItemUpdated  = "catalog.item.updated"
	EventCatalogItemDeleted  = "catalog.item.deleted"
	EventCatalogAddonCreated = "catalog.addon.created"
	EventCatalogAddonUpdated = "catalog.addon.updated"
	EventCatalogAddonDeleted = "catalog.addon.deleted"
	EventCatalogReload       = "catalog.reload"
)

// CatalogChangedEvent announces that a catalog family changed on the
// backend. Consumers reload the named family rather than patching from
// the payload, so a dropped event only delays convergence.
type CatalogChangedEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Family     string    `json:"family"`
	EntityID   string    `json:"entity_id,omitempty"`
	PropertyID string    `json:"property_id,omitempty"`

	// Denormalized data for audit trails and dashboards
	EntityName string `json:"entity_name,omitempty"`
}
