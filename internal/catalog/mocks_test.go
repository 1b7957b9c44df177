package catalog

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// MockLoader is a test double for Loader backed by fixture slices.
// Per-family errors and hook funcs override the defaults.
type MockLoader struct {
	Services      []Service
	Categories    []Category
	SubCategories []SubCategory
	Items         []Item
	Tags          []Tag
	Addons        []Addon

	Errs map[Family]error

	ListItemsFunc func(ctx context.Context) ([]Item, error)
}

func (m *MockLoader) ListServices(ctx context.Context) ([]Service, error) {
	if err := m.Errs[FamilyServices]; err != nil {
		return nil, err
	}
	return m.Services, nil
}

func (m *MockLoader) ListCategories(ctx context.Context) ([]Category, error) {
	if err := m.Errs[FamilyCategories]; err != nil {
		return nil, err
	}
	return m.Categories, nil
}

func (m *MockLoader) ListSubCategories(ctx context.Context) ([]SubCategory, error) {
	if err := m.Errs[FamilySubCategories]; err != nil {
		return nil, err
	}
	return m.SubCategories, nil
}

func (m *MockLoader) ListItems(ctx context.Context) ([]Item, error) {
	if m.ListItemsFunc != nil {
		return m.ListItemsFunc(ctx)
	}
	if err := m.Errs[FamilyItems]; err != nil {
		return nil, err
	}
	return m.Items, nil
}

func (m *MockLoader) ListTags(ctx context.Context) ([]Tag, error) {
	if err := m.Errs[FamilyTags]; err != nil {
		return nil, err
	}
	return m.Tags, nil
}

func (m *MockLoader) ListAddons(ctx context.Context) ([]Addon, error) {
	if err := m.Errs[FamilyAddons]; err != nil {
		return nil, err
	}
	return m.Addons, nil
}

// MockSnapshotRepo keeps snapshots in a map.
type MockSnapshotRepo struct {
	mu        sync.Mutex
	snapshots map[Family][]byte
	SaveErr   error
	LoadErr   error
}

func NewMockSnapshotRepo() *MockSnapshotRepo {
	return &MockSnapshotRepo{snapshots: make(map[Family][]byte)}
}

func (m *MockSnapshotRepo) SaveSnapshot(ctx context.Context, family Family, payload []byte) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[family] = payload
	return nil
}

func (m *MockSnapshotRepo) LoadSnapshot(ctx context.Context, family Family) ([]byte, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.snapshots[family]
	if !ok {
		return nil, fmt.Errorf("no snapshot for %s", family)
	}
	return payload, nil
}

// Deterministic fixture ids.
func testID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}

var (
	svcRoomServiceID = testID(1)
	svcSpaID         = testID(2)
	svcClosedID      = testID(3)

	catBreakfastID = testID(10)
	catPizzaID     = testID(11)
	catMassageID   = testID(12)

	subVegPizzaID  = testID(20)
	subMeatPizzaID = testID(21)

	itemPohaID      = testID(30)
	itemUpmaID      = testID(31)
	itemMargheritaID = testID(32)
	itemPepperoniID = testID(33)
	itemFaceMaskID  = testID(34)

	addonToppingsID = testID(40)
	addonCheeseID   = testID(41)

	tagSpicyID      = testID(50)
	tagBestsellerID = testID(51)
)

// fixtureLoader builds the default catalog used across tests:
// an active food service with two categories (Breakfast without
// subcategories, Pizza with two), an active non-food Spa service, and an
// inactive service that must stay off browsing paths.
func fixtureLoader() *MockLoader {
	vegPizza := subVegPizzaID
	meatPizza := subMeatPizzaID

	return &MockLoader{
		Services: []Service{
			{ID: svcRoomServiceID, Name: "Room Service", IsFood: true, Active: true},
			{ID: svcSpaID, Name: "Spa", IsFood: false, Active: true},
			{ID: svcClosedID, Name: "Rooftop Bar", IsFood: true, Active: false},
		},
		Categories: []Category{
			{ID: catBreakfastID, ServiceID: svcRoomServiceID, Name: "Breakfast"},
			{ID: catPizzaID, ServiceID: svcRoomServiceID, Name: "Pizza"},
			{ID: catMassageID, ServiceID: svcSpaID, Name: "Massage"},
		},
		SubCategories: []SubCategory{
			{ID: subVegPizzaID, CategoryID: catPizzaID, Name: "Vegetarian"},
			{ID: subMeatPizzaID, CategoryID: catPizzaID, Name: "Meat"},
		},
		Items: []Item{
			{
				ID: itemPohaID, ServiceID: svcRoomServiceID, CategoryID: catBreakfastID,
				Name: "Poha", Price: 120, IsFoodItem: true, DietaryType: DietaryVeg,
				Tags: []string{"Spicy", "Bestseller"}, Available: true,
			},
			{
				ID: itemUpmaID, ServiceID: svcRoomServiceID, CategoryID: catBreakfastID,
				Name: "Upma", Price: 80, IsFoodItem: true, DietaryType: DietaryEgg,
				Tags: []string{"Bestseller"}, Available: true,
			},
			{
				ID: itemMargheritaID, ServiceID: svcRoomServiceID, CategoryID: catPizzaID,
				SubCategoryID: &vegPizza,
				Name:          "Margherita", Price: 350, IsFoodItem: true, DietaryType: DietaryVeg,
				Available: true, HasAddons: true, AddonIDs: []uuid.UUID{addonToppingsID},
			},
			{
				ID: itemPepperoniID, ServiceID: svcRoomServiceID, CategoryID: catPizzaID,
				SubCategoryID: &meatPizza,
				Name:          "Pepperoni", Price: 420, IsFoodItem: true, DietaryType: DietaryNonVeg,
				Available: true, HasAddons: true, AddonIDs: []uuid.UUID{addonToppingsID, addonCheeseID},
			},
			{
				ID: itemFaceMaskID, ServiceID: svcSpaID, CategoryID: catMassageID,
				Name: "Herbal Face Mask", Price: 900, IsFoodItem: false,
				Available: true,
			},
		},
		Tags: []Tag{
			{ID: tagSpicyID, Name: "Spicy"},
			{ID: tagBestsellerID, Name: "Bestseller"},
		},
		Addons: []Addon{
			{
				ID: addonToppingsID, Name: "Extra Toppings", SelectionMode: SelectionMulti,
				Options: []AddonOption{
					{Name: "Cheese", UnitPrice: 20, UnitLabel: "slice"},
					{Name: "Olives", UnitPrice: 15, UnitLabel: "portion"},
				},
			},
			{
				ID: addonCheeseID, Name: "Crust", SelectionMode: SelectionSingle,
				Options: []AddonOption{
					{Name: "Thin", UnitPrice: 0, UnitLabel: "base"},
					{Name: "Stuffed", UnitPrice: 60, UnitLabel: "base"},
				},
			},
		},
	}
}

// loadedStore returns a store warmed from the fixture loader.
func loadedStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(fixtureLoader(), nil, nil)
	if err := store.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	return store
}
