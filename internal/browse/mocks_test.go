package browse

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
	svcClosedID      = testID(2)

	catBreakfastID = testID(10)
	catPizzaID     = testID(11)

	subVegPizzaID  = testID(20)
	subMeatPizzaID = testID(21)

	itemPohaID       = testID(30)
	itemUpmaID       = testID(31)
	itemMargheritaID = testID(32)

	addonToppingsID = testID(40)
	addonCrustID    = testID(41)
)

// StaticLoader serves fixed fixture slices.
type StaticLoader struct {
	Services      []catalog.Service
	Categories    []catalog.Category
	SubCategories []catalog.SubCategory
	Items         []catalog.Item
	Tags          []catalog.Tag
	Addons        []catalog.Addon
}

func (l *StaticLoader) ListServices(ctx context.Context) ([]catalog.Service, error) {
	return l.Services, nil
}

func (l *StaticLoader) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return l.Categories, nil
}

func (l *StaticLoader) ListSubCategories(ctx context.Context) ([]catalog.SubCategory, error) {
	return l.SubCategories, nil
}

func (l *StaticLoader) ListItems(ctx context.Context) ([]catalog.Item, error) {
	return l.Items, nil
}

func (l *StaticLoader) ListTags(ctx context.Context) ([]catalog.Tag, error) {
	return l.Tags, nil
}

func (l *StaticLoader) ListAddons(ctx context.Context) ([]catalog.Addon, error) {
	return l.Addons, nil
}

func fixtureLoader() *StaticLoader {
	return &StaticLoader{
		Services: []catalog.Service{
			{ID: svcRoomServiceID, Name: "Room Service", IsFood: true, Active: true},
			{ID: svcClosedID, Name: "Pool Bar", IsFood: true, Active: false},
		},
		Categories: []catalog.Category{
			{ID: catBreakfastID, ServiceID: svcRoomServiceID, Name: "Breakfast"},
			{ID: catPizzaID, ServiceID: svcRoomServiceID, Name: "Pizza"},
		},
		SubCategories: []catalog.SubCategory{
			{ID: subVegPizzaID, CategoryID: catPizzaID, Name: "Vegetarian"},
			{ID: subMeatPizzaID, CategoryID: catPizzaID, Name: "Meat"},
		},
		Items: []catalog.Item{
			{
				ID:          itemPohaID,
				ServiceID:   svcRoomServiceID,
				CategoryID:  catBreakfastID,
				Name:        "Poha",
				Price:       120,
				IsFoodItem:  true,
				DietaryType: catalog.DietaryVeg,
				Tags:        []string{"Spicy"},
				Available:   true,
			},
			{
				ID:          itemUpmaID,
				ServiceID:   svcRoomServiceID,
				CategoryID:  catBreakfastID,
				Name:        "Upma",
				Price:       80,
				IsFoodItem:  true,
				DietaryType: catalog.DietaryEgg,
				Available:   true,
			},
			{
				ID:            itemMargheritaID,
				ServiceID:     svcRoomServiceID,
				CategoryID:    catPizzaID,
				SubCategoryID: &subVegPizzaID,
				Name:          "Margherita",
				Price:         350,
				IsFoodItem:    true,
				DietaryType:   catalog.DietaryVeg,
				HasAddons:     true,
				AddonIDs:      []uuid.UUID{addonToppingsID},
				Available:     true,
			},
		},
		Tags: []catalog.Tag{
			{ID: testID(50), Name: "Spicy"},
		},
		Addons: []catalog.Addon{
			{
				ID:            addonToppingsID,
				Name:          "Extra Toppings",
				SelectionMode: catalog.SelectionMulti,
				Options: []catalog.AddonOption{
					{Name: "Cheese", UnitPrice: 20, UnitLabel: "slice"},
					{Name: "Olives", UnitPrice: 15, UnitLabel: "portion"},
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

func loadedStore(t *testing.T) *catalog.Store {
	t.Helper()
	store := catalog.NewStore(fixtureLoader(), nil, nil)
	if err := store.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	return store
}
