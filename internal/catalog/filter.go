package catalog

import (
	"sort"

	"github.com/google/uuid"
)

// PriceSort orders filtered items by price.
type PriceSort string

const (
	PriceAsc  PriceSort = "asc"
	PriceDesc PriceSort = "desc"
)

// ValidPriceSort reports whether p is a known sort direction.
func ValidPriceSort(p PriceSort) bool {
	return p == PriceAsc || p == PriceDesc
}

// FilterState holds the cross-cutting filters applied orthogonally to the
// hierarchy selection. Zero values for Dietary and Tag mean "all".
type FilterState struct {
	Dietary DietaryType `json:"dietary,omitempty"`
	Tag     string      `json:"tag,omitempty"`
	Sort    PriceSort   `json:"sort"`
}

// DefaultFilters returns the reset state: all dietary types, all tags,
// price ascending.
func DefaultFilters() FilterState {
	return FilterState{Sort: PriceAsc}
}

// Reset restores the defaults. The hierarchy cursor is untouched; resetting
// filters never moves the guest's position.
func (f *FilterState) Reset() {
	*f = DefaultFilters()
}

// ItemQuery scopes a filter pass to one (category, subcategory) pair.
// A nil SubCategoryID matches only items whose SubCategoryID is nil; it is
// a strict equality match, not a wildcard over the category's subcategories.
type ItemQuery struct {
	CategoryID    uuid.UUID
	SubCategoryID *uuid.UUID
	Filters       FilterState
}

// QueryItems returns the ordered, filtered item list for the query. The
// pass narrows by category via the store's index before applying the
// remaining predicates, then stable-sorts by price.
//
// Equal-price items keep catalog order in both sort directions: descending
// flips only the direction of strict price inequalities. Re-running the
// same query over an unchanged catalog yields identical output.
func (s *Store) QueryItems(q ItemQuery) []Item {
	s.mu.RLock()

	if s.loaded[FamilyCategories] {
		if _, ok := s.categoryIdx[q.CategoryID]; !ok {
			s.mu.RUnlock()
			s.logger.Debug("query for unknown category", "category_id", q.CategoryID.String())
			return []Item{}
		}
	}

	idxs := s.itemsByCategory[q.CategoryID]
	out := make([]Item, 0, len(idxs))
	for _, i := range idxs {
		item := s.items[i]
		if !matchSubCategory(item, q.SubCategoryID) {
			continue
		}
		if q.Filters.Dietary != DietaryNone && item.DietaryType != q.Filters.Dietary {
			continue
		}
		if q.Filters.Tag != "" && !item.HasTag(q.Filters.Tag) {
			continue
		}
		out = append(out, item)
	}
	s.mu.RUnlock()

	desc := q.Filters.Sort == PriceDesc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].Price > out[j].Price
		}
		return out[i].Price < out[j].Price
	})
	return out
}

func matchSubCategory(item Item, want *uuid.UUID) bool {
	if want == nil {
		return item.SubCategoryID == nil
	}
	return item.SubCategoryID != nil && *item.SubCategoryID == *want
}

// DietaryApplicable reports whether the dietary filter means anything for
// the category: it does only when at least one item in the whole category
// (not the active subcategory) is a food item. The UI keeps the dietary
// selector disabled otherwise.
func (s *Store) DietaryApplicable(categoryID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, i := range s.itemsByCategory[categoryID] {
		if s.items[i].IsFoodItem {
			return true
		}
	}
	return false
}
