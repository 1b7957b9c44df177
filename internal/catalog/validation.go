package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateItem validates an item payload before it is written through to
// the backend. Referential checks run against the store mirror and are
// skipped for families that have not loaded yet; the backend re-validates
// as the system of record.
func ValidateItem(item *Item, store *Store) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(item.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if math.IsNaN(item.Price) || math.IsInf(item.Price, 0) || item.Price < 0 {
		errors = append(errors, ValidationError{
			Field:   "price",
			Message: "price must be a finite, non-negative amount",
		})
	}

	if !ValidDietaryType(item.DietaryType) {
		errors = append(errors, ValidationError{
			Field:   "dietary_type",
			Message: "dietary_type must be one of: veg, non_veg, egg",
		})
	} else if !item.IsFoodItem && item.DietaryType != DietaryNone {
		errors = append(errors, ValidationError{
			Field:   "dietary_type",
			Message: "dietary_type is only meaningful for food items",
		})
	}

	if item.Calories != nil && *item.Calories < 0 {
		errors = append(errors, ValidationError{
			Field:   "calories",
			Message: "calories cannot be negative",
		})
	}

	if item.HasAddons && len(item.AddonIDs) == 0 {
		errors = append(errors, ValidationError{
			Field:   "addon_ids",
			Message: "has_addons requires at least one add-on reference",
		})
	}
	if !item.HasAddons && len(item.AddonIDs) > 0 {
		errors = append(errors, ValidationError{
			Field:   "has_addons",
			Message: "has_addons must be true when add-on references are present",
		})
	}

	if store == nil {
		return errors
	}

	errors = append(errors, validateItemReferences(item, store)...)
	return errors
}

// validateItemReferences checks hierarchy consistency: the category must
// belong to the item's service, and the subcategory (when set) to the
// item's category.
func validateItemReferences(item *Item, store *Store) []ValidationError {
	var errors []ValidationError

	if store.Loaded(FamilyServices) {
		if _, ok := store.GetService(item.ServiceID); !ok {
			errors = append(errors, ValidationError{
				Field:   "service_id",
				Message: fmt.Sprintf("unknown service %s", item.ServiceID),
			})
		}
	}

	if store.Loaded(FamilyCategories) {
		cat, ok := store.GetCategory(item.CategoryID)
		if !ok {
			errors = append(errors, ValidationError{
				Field:   "category_id",
				Message: fmt.Sprintf("unknown category %s", item.CategoryID),
			})
		} else if cat.ServiceID != item.ServiceID {
			errors = append(errors, ValidationError{
				Field:   "category_id",
				Message: "category does not belong to the item's service",
			})
		}
	}

	if item.SubCategoryID != nil && store.Loaded(FamilySubCategories) {
		sub, ok := store.GetSubCategory(*item.SubCategoryID)
		if !ok {
			errors = append(errors, ValidationError{
				Field:   "subcategory_id",
				Message: fmt.Sprintf("unknown subcategory %s", *item.SubCategoryID),
			})
		} else if sub.CategoryID != item.CategoryID {
			errors = append(errors, ValidationError{
				Field:   "subcategory_id",
				Message: "subcategory does not belong to the item's category",
			})
		}
	}

	if store.Loaded(FamilyAddons) {
		for i, addonID := range item.AddonIDs {
			if _, ok := store.GetAddon(addonID); !ok {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("addon_ids[%d]", i),
					Message: fmt.Sprintf("unknown add-on %s", addonID),
				})
			}
		}
	}

	return errors
}

// ValidateUpdateItem validates an item before update
func ValidateUpdateItem(item *Item, store *Store) []ValidationError {
	errors := ValidateItem(item, store)

	if item.ID == uuid.Nil {
		errors = append(errors, ValidationError{
			Field:   "id",
			Message: "id is required for update",
		})
	}

	return errors
}

// ValidateAddon validates an add-on group definition field by field.
func ValidateAddon(addon *Addon) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(addon.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if addon.SelectionMode != SelectionSingle && addon.SelectionMode != SelectionMulti {
		errors = append(errors, ValidationError{
			Field:   "selection_mode",
			Message: "selection_mode must be one of: single, multi",
		})
	}

	if len(addon.Options) == 0 {
		errors = append(errors, ValidationError{
			Field:   "options",
			Message: "at least one option is required",
		})
	}

	seen := make(map[string]bool, len(addon.Options))
	for i, opt := range addon.Options {
		if strings.TrimSpace(opt.Name) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("options[%d].name", i),
				Message: "option name is required",
			})
			continue
		}
		if seen[opt.Name] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("options[%d].name", i),
				Message: fmt.Sprintf("duplicate option name %q", opt.Name),
			})
		}
		seen[opt.Name] = true
		if math.IsNaN(opt.UnitPrice) || math.IsInf(opt.UnitPrice, 0) || opt.UnitPrice < 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("options[%d].unit_price", i),
				Message: "unit price must be a finite, non-negative amount",
			})
		}
	}

	return errors
}

// ValidateUpdateAddon validates an add-on before update
func ValidateUpdateAddon(addon *Addon) []ValidationError {
	errors := ValidateAddon(addon)

	if addon.ID == uuid.Nil {
		errors = append(errors, ValidationError{
			Field:   "id",
			Message: "id is required for update",
		})
	}

	return errors
}
