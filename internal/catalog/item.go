package catalog

import (
	"github.com/google/uuid"
)

// DietaryType classifies a food item. It is meaningful only when
// IsFoodItem is true; non-food items carry DietaryNone.
type DietaryType string

const (
	DietaryNone   DietaryType = ""
	DietaryVeg    DietaryType = "veg"
	DietaryNonVeg DietaryType = "non_veg"
	DietaryEgg    DietaryType = "egg"
)

// ValidDietaryType reports whether d is one of the known dietary codes.
func ValidDietaryType(d DietaryType) bool {
	switch d {
	case DietaryNone, DietaryVeg, DietaryNonVeg, DietaryEgg:
		return true
	}
	return false
}

// Item is a purchasable catalog entry. SubCategoryID is nil when the item
// attaches directly to its category (the category has no subcategory layer).
type Item struct {
	ID            uuid.UUID   `json:"id"`
	ServiceID     uuid.UUID   `json:"service_id"`
	CategoryID    uuid.UUID   `json:"category_id"`
	SubCategoryID *uuid.UUID  `json:"subcategory_id,omitempty"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	ImagePath     string      `json:"image_path,omitempty"`
	Price         float64     `json:"price"`
	PricePerUnit  string      `json:"price_per_unit,omitempty"`
	IsFoodItem    bool        `json:"is_food_item"`
	DietaryType   DietaryType `json:"dietary_type,omitempty"`
	Calories      *int        `json:"calories,omitempty"`
	PortionSize   string      `json:"portion_size,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	Available     bool        `json:"available"`
	HasAddons     bool        `json:"has_addons"`
	AddonIDs      []uuid.UUID `json:"addon_ids,omitempty"`
}

// EnsureID generates a new UUID if ID is nil
func (i *Item) EnsureID() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
}

// GetID returns the item ID
func (i *Item) GetID() uuid.UUID {
	return i.ID
}

// ResourceType returns the resource type for URL generation
func (i *Item) ResourceType() string {
	return "catalog/item"
}

// HasTag reports whether the item carries the given tag name.
func (i *Item) HasTag(name string) bool {
	for _, t := range i.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// ReferencesAddon reports whether the item links the given add-on group.
func (i *Item) ReferencesAddon(addonID uuid.UUID) bool {
	for _, id := range i.AddonIDs {
		if id == addonID {
			return true
		}
	}
	return false
}
