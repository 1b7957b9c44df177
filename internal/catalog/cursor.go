package catalog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Direction moves the category cursor within the active service.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

var (
	// ErrNotPositioned is returned for hierarchy moves attempted before
	// the catalog has loaded far enough to position the cursor.
	ErrNotPositioned = errors.New("cursor not positioned")
	// ErrForeignSubCategory is returned when a subcategory id does not
	// belong to the active category's subcategory set.
	ErrForeignSubCategory = errors.New("subcategory does not belong to the active category")
)

// Position is the read view of a cursor: the triple of active service,
// category index and subcategory. CategoryID is nil when the index points
// at an empty slot (a service without categories), which consumers render
// as an empty state, not an error.
type Position struct {
	ServiceID     uuid.UUID  `json:"service_id"`
	CategoryIndex int        `json:"category_index"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	SubCategoryID *uuid.UUID `json:"subcategory_id,omitempty"`
}

// Cursor tracks a guest's position in the hierarchy as a single consistent
// triple and enforces descendant-reset whenever an ancestor changes. It is
// either Uninitialized (catalog not loaded far enough) or Positioned; there
// is no terminal state.
//
// Cursor is not safe for concurrent use; the browse session wraps it.
type Cursor struct {
	store *Store

	positioned    bool
	serviceID     uuid.UUID
	categoryIndex int
	subCategoryID *uuid.UUID

	// subDerived records whether the subcategory was computed with the
	// category families loaded. A cursor positioned mid warm-start pins
	// nil; the next read re-derives once the families arrive.
	subDerived bool
}

// NewCursor creates an uninitialized cursor over the store.
func NewCursor(store *Store) *Cursor {
	return &Cursor{store: store}
}

// Positioned reports whether the cursor has a position, attempting
// initialization first. Positioning requires the service family; with
// categories or subcategories still in flight the cursor degrades to an
// empty category slot rather than failing.
func (c *Cursor) Positioned() bool {
	if c.positioned {
		return true
	}
	if !c.store.Loaded(FamilyServices) {
		return false
	}
	active := c.store.ActiveServices()
	if len(active) == 0 {
		return false
	}
	c.serviceID = active[0].ID
	c.categoryIndex = 0
	c.positioned = true
	c.resetSubCategory(nil)
	return true
}

// Position returns the current triple. The second return is false while
// the cursor is uninitialized.
func (c *Cursor) Position() (Position, bool) {
	if !c.Positioned() {
		return Position{}, false
	}
	if !c.subDerived {
		c.resetSubCategory(c.subCategoryID)
	}
	pos := Position{
		ServiceID:     c.serviceID,
		CategoryIndex: c.categoryIndex,
		SubCategoryID: c.subCategoryID,
	}
	cats := c.store.CategoriesByService(c.serviceID)
	if c.categoryIndex >= 0 && c.categoryIndex < len(cats) {
		id := cats[c.categoryIndex].ID
		pos.CategoryID = &id
	}
	return pos, true
}

// ActiveCategory returns the category under the cursor, if the index
// points at one.
func (c *Cursor) ActiveCategory() (Category, bool) {
	pos, ok := c.Position()
	if !ok || pos.CategoryID == nil {
		return Category{}, false
	}
	return c.store.GetCategory(*pos.CategoryID)
}

// SelectService moves the cursor to another service and resets every
// descendant selection: category index back to zero, subcategory
// recomputed. Inactive and unknown services are rejected.
func (c *Cursor) SelectService(id uuid.UUID) error {
	if !c.Positioned() {
		return ErrNotPositioned
	}
	svc, ok := c.store.GetService(id)
	if !ok {
		return fmt.Errorf("unknown service %s", id)
	}
	if !svc.Active {
		return fmt.Errorf("service %s is not active", id)
	}
	c.serviceID = id
	c.categoryIndex = 0
	c.resetSubCategory(nil)
	return nil
}

// SelectCategory moves the category cursor to the given index within the
// active service. The subcategory is always recomputed: the previous
// subcategory survives only if it belongs to the new category's set,
// otherwise the new set's first subcategory (or nil) is selected. There is
// no path that changes category without touching subcategory.
func (c *Cursor) SelectCategory(index int) error {
	if !c.Positioned() {
		return ErrNotPositioned
	}
	cats := c.store.CategoriesByService(c.serviceID)
	if index < 0 || (len(cats) > 0 && index >= len(cats)) {
		return fmt.Errorf("category index %d out of range", index)
	}
	if len(cats) == 0 && index != 0 {
		return fmt.Errorf("category index %d out of range", index)
	}
	previous := c.subCategoryID
	c.categoryIndex = index
	c.resetSubCategory(previous)
	return nil
}

// AdvanceCategory steps the category cursor, wrapping modulo the active
// service's category count. A service without categories stays on its
// empty slot. The same subcategory reset rule as SelectCategory applies.
func (c *Cursor) AdvanceCategory(dir Direction) error {
	if !c.Positioned() {
		return ErrNotPositioned
	}
	cats := c.store.CategoriesByService(c.serviceID)
	if len(cats) == 0 {
		return nil
	}
	n := len(cats)
	switch dir {
	case DirectionNext:
		c.categoryIndex = (c.categoryIndex + 1) % n
	case DirectionPrev:
		c.categoryIndex = (c.categoryIndex - 1 + n) % n
	default:
		return fmt.Errorf("unknown direction %q", dir)
	}
	c.resetSubCategory(c.subCategoryID)
	return nil
}

// SelectSubCategory sets the active subcategory directly without altering
// the category. The id must belong to the active category's set.
func (c *Cursor) SelectSubCategory(id uuid.UUID) error {
	if !c.Positioned() {
		return ErrNotPositioned
	}
	cat, ok := c.ActiveCategory()
	if !ok {
		return ErrForeignSubCategory
	}
	for _, sub := range c.store.SubCategoriesByCategory(cat.ID) {
		if sub.ID == id {
			subID := id
			c.subCategoryID = &subID
			c.subDerived = true
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrForeignSubCategory, id)
}

// resetSubCategory recomputes the subcategory for the current category:
// keep the previous one if it is still in the set, else first-or-nil.
func (c *Cursor) resetSubCategory(previous *uuid.UUID) {
	c.subCategoryID = nil
	c.subDerived = c.store.Loaded(FamilyCategories) && c.store.Loaded(FamilySubCategories)

	cats := c.store.CategoriesByService(c.serviceID)
	if c.categoryIndex < 0 || c.categoryIndex >= len(cats) {
		return
	}
	subs := c.store.SubCategoriesByCategory(cats[c.categoryIndex].ID)
	if len(subs) == 0 {
		return
	}
	if previous != nil {
		for _, sub := range subs {
			if sub.ID == *previous {
				keep := *previous
				c.subCategoryID = &keep
				return
			}
		}
	}
	first := subs[0].ID
	c.subCategoryID = &first
}
