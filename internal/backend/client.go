package backend

import (
	"context"
	"fmt"

	"github.com/appetiteclub/concierge/internal/catalog"
	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

// DataAccess centralizes decoding of admin backend responses. It implements
// catalog.Loader for the read families and the write-through operations the
// manager surface needs. The backend stays the system of record; nothing
// here retries or caches.
type DataAccess struct {
	client   *aqm.ServiceClient
	property string
	logger   aqm.Logger
}

// NewDataAccess creates a backend data access layer. propertyID scopes
// list calls to one hotel property; empty means the backend's default
// scope (single-property deployments).
func NewDataAccess(client *aqm.ServiceClient, propertyID string, logger aqm.Logger) *DataAccess {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &DataAccess{
		client:   client,
		property: propertyID,
		logger:   logger,
	}
}

func (da *DataAccess) listPath(resource string) string {
	if da.property == "" {
		return "/" + resource
	}
	return fmt.Sprintf("/properties/%s/%s", da.property, resource)
}

func (da *DataAccess) list(ctx context.Context, resource string, dest interface{}) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("backend client not configured")
	}

	resp, err := da.client.Request(ctx, "GET", da.listPath(resource), nil)
	if err != nil {
		return fmt.Errorf("list %s: %w", resource, err)
	}

	return decodeResource(resp, resource, dest)
}

// ListServices fetches the property's services.
func (da *DataAccess) ListServices(ctx context.Context) ([]catalog.Service, error) {
	var services []catalog.Service
	if err := da.list(ctx, "services", &services); err != nil {
		return nil, err
	}
	return services, nil
}

// ListCategories fetches the property's categories.
func (da *DataAccess) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := da.list(ctx, "categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListSubCategories fetches the property's subcategories.
func (da *DataAccess) ListSubCategories(ctx context.Context) ([]catalog.SubCategory, error) {
	var subcategories []catalog.SubCategory
	if err := da.list(ctx, "subcategories", &subcategories); err != nil {
		return nil, err
	}
	return subcategories, nil
}

// ListItems fetches the property's items.
func (da *DataAccess) ListItems(ctx context.Context) ([]catalog.Item, error) {
	var items []catalog.Item
	if err := da.list(ctx, "items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListTags fetches the property's tags.
func (da *DataAccess) ListTags(ctx context.Context) ([]catalog.Tag, error) {
	var tags []catalog.Tag
	if err := da.list(ctx, "tags", &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// ListAddons fetches the property's add-on groups.
func (da *DataAccess) ListAddons(ctx context.Context) ([]catalog.Addon, error) {
	var addons []catalog.Addon
	if err := da.list(ctx, "addons", &addons); err != nil {
		return nil, err
	}
	return addons, nil
}

// CreateItem writes a new item through to the backend.
func (da *DataAccess) CreateItem(ctx context.Context, item *catalog.Item) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("backend client not configured")
	}
	if _, err := da.client.Create(ctx, "items", item); err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// UpdateItem writes an item change through to the backend.
func (da *DataAccess) UpdateItem(ctx context.Context, item *catalog.Item) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("backend client not configured")
	}
	if _, err := da.client.Update(ctx, "items", item.ID.String(), item); err != nil {
		return fmt.Errorf("update item %s: %w", item.ID, err)
	}
	return nil
}

// DeleteItem removes an item on the backend.
func (da *DataAccess) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("backend client not configured")
	}
	if err := da.client.Delete(ctx, "items", id.String()); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return nil
}

// CreateAddon writes a new add-on group through to the backend.
func (da *DataAccess) CreateAddon(ctx context.Context, addon *catalog.Addon) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("backend client not configured")
	}
	if _, err := da.client.Create(ctx, "addons", addon); err != nil {
		return fmt.Errorf("create addon: %w", err)
	}
	return nil
}

// UpdateAddon writes an add-on change through to the backend.
func (da *DataAccess) UpdateAddon(ctx context.Context, addon *catalog.Addon) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("backend client not configured")
	}
	if _, err := da.client.Update(ctx, "addons", addon.ID.String(), addon); err != nil {
		return fmt.Errorf("update addon %s: %w", addon.ID, err)
	}
	return nil
}

// DeleteAddon removes an add-on group on the backend. Reference guarding
// happens in the manager layer before this call.
func (da *DataAccess) DeleteAddon(ctx context.Context, id uuid.UUID) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("backend client not configured")
	}
	if err := da.client.Delete(ctx, "addons", id.String()); err != nil {
		return fmt.Errorf("delete addon %s: %w", id, err)
	}
	return nil
}
