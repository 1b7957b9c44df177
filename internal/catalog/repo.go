package catalog

import (
	"context"
)

// Family identifies one of the catalog resource families mirrored from the
// backend. Each family loads, replaces and snapshots independently.
type Family string

const (
	FamilyServices      Family = "services"
	FamilyCategories    Family = "categories"
	FamilySubCategories Family = "subcategories"
	FamilyItems         Family = "items"
	FamilyTags          Family = "tags"
	FamilyAddons        Family = "addons"
)

// Families returns all resource families in load order.
func Families() []Family {
	return []Family{
		FamilyServices,
		FamilyCategories,
		FamilySubCategories,
		FamilyItems,
		FamilyTags,
		FamilyAddons,
	}
}

// ValidFamily reports whether f names a known resource family.
func ValidFamily(f Family) bool {
	switch f {
	case FamilyServices, FamilyCategories, FamilySubCategories, FamilyItems, FamilyTags, FamilyAddons:
		return true
	}
	return false
}

// Loader fetches family lists from the system of record (the admin backend).
type Loader interface {
	ListServices(ctx context.Context) ([]Service, error)
	ListCategories(ctx context.Context) ([]Category, error)
	ListSubCategories(ctx context.Context) ([]SubCategory, error)
	ListItems(ctx context.Context) ([]Item, error)
	ListTags(ctx context.Context) ([]Tag, error)
	ListAddons(ctx context.Context) ([]Addon, error)
}

// SnapshotRepo persists family payloads so the store can warm-start with
// stale data when the backend is unreachable.
type SnapshotRepo interface {
	SaveSnapshot(ctx context.Context, family Family, payload []byte) error
	LoadSnapshot(ctx context.Context, family Family) ([]byte, error)
}
