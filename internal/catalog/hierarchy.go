package catalog

import (
	"github.com/google/uuid"
)

// Service is the root of the catalog hierarchy: a top-level offering a
// property exposes to guests (e.g. "Room Service", "Spa").
type Service struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	IsFood bool      `json:"is_food"`
	Active bool      `json:"active"`
}

// GetID returns the service ID
func (s *Service) GetID() uuid.UUID {
	return s.ID
}

// ResourceType returns the resource type for URL generation
func (s *Service) ResourceType() string {
	return "catalog/service"
}

// Category groups items under a service. Every category belongs to exactly
// one service; categories whose service is unknown are excluded from
// browsing but never removed here (the backend owns deletion).
type Category struct {
	ID        uuid.UUID `json:"id"`
	ServiceID uuid.UUID `json:"service_id"`
	Name      string    `json:"name"`
}

// GetID returns the category ID
func (c *Category) GetID() uuid.UUID {
	return c.ID
}

// ResourceType returns the resource type for URL generation
func (c *Category) ResourceType() string {
	return "catalog/category"
}

// SubCategory is an optional grouping layer below Category. A category may
// have none, in which case its items carry a nil SubCategoryID.
type SubCategory struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
}

// GetID returns the subcategory ID
func (s *SubCategory) GetID() uuid.UUID {
	return s.ID
}

// ResourceType returns the resource type for URL generation
func (s *SubCategory) ResourceType() string {
	return "catalog/subcategory"
}

// Tag is a free-form label attached to items by name. Items reference tags
// by name rather than ID because that is the backend wire contract.
type Tag struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

// GetID returns the tag ID
func (t *Tag) GetID() uuid.UUID {
	return t.ID
}

// ResourceType returns the resource type for URL generation
func (t *Tag) ResourceType() string {
	return "catalog/tag"
}
