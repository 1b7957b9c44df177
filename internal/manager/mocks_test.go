package manager

import (
	"context"
	"fmt"
	"testing"

	"github.com/appetiteclub/concierge/internal/catalog"
	"github.com/google/uuid"
)

func testID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}

var (
	svcRoomServiceID = testID(1)
	catPizzaID       = testID(11)
	itemMargheritaID = testID(32)
	addonToppingsID  = testID(40)
	addonCrustID     = testID(41)
)

// FakeBackend acts as both catalog.Loader and CatalogWriter, mimicking
// the admin backend: writes mutate its fixtures, so a mirror refresh
// observes them.
type FakeBackend struct {
	Services      []catalog.Service
	Categories    []catalog.Category
	SubCategories []catalog.SubCategory
	Items         []catalog.Item
	Tags          []catalog.Tag
	Addons        []catalog.Addon

	WriteErr error

	CreateItemFunc func(ctx context.Context, item *catalog.Item) error
}

func newFakeBackend() *FakeBackend {
	return &FakeBackend{
		Services: []catalog.Service{
			{ID: svcRoomServiceID, Name: "Room Service", IsFood: true, Active: true},
		},
		Categories: []catalog.Category{
			{ID: catPizzaID, ServiceID: svcRoomServiceID, Name: "Pizza"},
		},
		Items: []catalog.Item{
			{
				ID:          itemMargheritaID,
				ServiceID:   svcRoomServiceID,
				CategoryID:  catPizzaID,
				Name:        "Margherita",
				Price:       350,
				IsFoodItem:  true,
				DietaryType: catalog.DietaryVeg,
				HasAddons:   true,
				AddonIDs:    []uuid.UUID{addonToppingsID},
				Available:   true,
			},
		},
		Addons: []catalog.Addon{
			{
				ID:            addonToppingsID,
				Name:          "Extra Toppings",
				SelectionMode: catalog.SelectionMulti,
				Options: []catalog.AddonOption{
					{Name: "Cheese", UnitPrice: 20},
					{Name: "Olives", UnitPrice: 15},
				},
			},
			{
				ID:            addonCrustID,
				Name:          "Crust",
				SelectionMode: catalog.SelectionSingle,
				Options: []catalog.AddonOption{
					{Name: "Thin", UnitPrice: 0},
					{Name: "Stuffed", UnitPrice: 60},
				},
			},
		},
	}
}

// Loader side

func (b *FakeBackend) ListServices(ctx context.Context) ([]catalog.Service, error) {
	return b.Services, nil
}

func (b *FakeBackend) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return b.Categories, nil
}

func (b *FakeBackend) ListSubCategories(ctx context.Context) ([]catalog.SubCategory, error) {
	return b.SubCategories, nil
}

func (b *FakeBackend) ListItems(ctx context.Context) ([]catalog.Item, error) {
	return b.Items, nil
}

func (b *FakeBackend) ListTags(ctx context.Context) ([]catalog.Tag, error) {
	return b.Tags, nil
}

func (b *FakeBackend) ListAddons(ctx context.Context) ([]catalog.Addon, error) {
	return b.Addons, nil
}

// Writer side

func (b *FakeBackend) CreateItem(ctx context.Context, item *catalog.Item) error {
	if b.CreateItemFunc != nil {
		return b.CreateItemFunc(ctx, item)
	}
	if b.WriteErr != nil {
		return b.WriteErr
	}
	b.Items = append(b.Items, *item)
	return nil
}

func (b *FakeBackend) UpdateItem(ctx context.Context, item *catalog.Item) error {
	if b.WriteErr != nil {
		return b.WriteErr
	}
	for i := range b.Items {
		if b.Items[i].ID == item.ID {
			b.Items[i] = *item
			return nil
		}
	}
	return fmt.Errorf("item %s not found", item.ID)
}

func (b *FakeBackend) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if b.WriteErr != nil {
		return b.WriteErr
	}
	for i := range b.Items {
		if b.Items[i].ID == id {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("item %s not found", id)
}

func (b *FakeBackend) CreateAddon(ctx context.Context, addon *catalog.Addon) error {
	if b.WriteErr != nil {
		return b.WriteErr
	}
	b.Addons = append(b.Addons, *addon)
	return nil
}

func (b *FakeBackend) UpdateAddon(ctx context.Context, addon *catalog.Addon) error {
	if b.WriteErr != nil {
		return b.WriteErr
	}
	for i := range b.Addons {
		if b.Addons[i].ID == addon.ID {
			b.Addons[i] = *addon
			return nil
		}
	}
	return fmt.Errorf("addon %s not found", addon.ID)
}

func (b *FakeBackend) DeleteAddon(ctx context.Context, id uuid.UUID) error {
	if b.WriteErr != nil {
		return b.WriteErr
	}
	for i := range b.Addons {
		if b.Addons[i].ID == id {
			b.Addons = append(b.Addons[:i], b.Addons[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("addon %s not found", id)
}

// MockPublisher records published messages.
type MockPublisher struct {
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
	Published   [][]byte
	Topics      []string
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (p *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if p.PublishFunc != nil {
		return p.PublishFunc(ctx, topic, msg)
	}
	p.Topics = append(p.Topics, topic)
	p.Published = append(p.Published, msg)
	return nil
}

func loadedStore(t *testing.T, backend *FakeBackend) *catalog.Store {
	t.Helper()
	store := catalog.NewStore(backend, nil, nil)
	if err := store.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	return store
}
