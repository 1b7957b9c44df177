package seeding

import (
	"github.com/appetiteclub/concierge/internal/catalog"
	"github.com/google/uuid"
)

var (
	svcRoomServiceID = uuid.MustParse("8d5d2a10-0001-4b0e-9c70-000000000001")
	svcSpaID         = uuid.MustParse("8d5d2a10-0001-4b0e-9c70-000000000002")

	catBreakfastID = uuid.MustParse("8d5d2a10-0002-4b0e-9c70-000000000001")
	catPizzaID     = uuid.MustParse("8d5d2a10-0002-4b0e-9c70-000000000002")
	catMassageID   = uuid.MustParse("8d5d2a10-0002-4b0e-9c70-000000000003")

	subVegPizzaID  = uuid.MustParse("8d5d2a10-0003-4b0e-9c70-000000000001")
	subMeatPizzaID = uuid.MustParse("8d5d2a10-0003-4b0e-9c70-000000000002")

	addonToppingsID = uuid.MustParse("8d5d2a10-0005-4b0e-9c70-000000000001")
	addonCrustID    = uuid.MustParse("8d5d2a10-0005-4b0e-9c70-000000000002")
)

// DemoServices returns the demo property's service list.
func DemoServices() []catalog.Service {
	return []catalog.Service{
		{ID: svcRoomServiceID, Name: "Room Service", IsFood: true, Active: true},
		{ID: svcSpaID, Name: "Spa & Wellness", IsFood: false, Active: true},
	}
}

// DemoCategories returns the demo categories across services.
func DemoCategories() []catalog.Category {
	return []catalog.Category{
		{ID: catBreakfastID, ServiceID: svcRoomServiceID, Name: "Breakfast"},
		{ID: catPizzaID, ServiceID: svcRoomServiceID, Name: "Pizza"},
		{ID: catMassageID, ServiceID: svcSpaID, Name: "Massages"},
	}
}

// DemoSubCategories returns the demo subcategory sets.
func DemoSubCategories() []catalog.SubCategory {
	return []catalog.SubCategory{
		{ID: subVegPizzaID, CategoryID: catPizzaID, Name: "Vegetarian"},
		{ID: subMeatPizzaID, CategoryID: catPizzaID, Name: "Meat"},
	}
}

// DemoTags returns the demo tag dictionary.
func DemoTags() []catalog.Tag {
	return []catalog.Tag{
		{ID: uuid.MustParse("8d5d2a10-0004-4b0e-9c70-000000000001"), Name: "Spicy"},
		{ID: uuid.MustParse("8d5d2a10-0004-4b0e-9c70-000000000002"), Name: "Bestseller"},
		{ID: uuid.MustParse("8d5d2a10-0004-4b0e-9c70-000000000003"), Name: "Chef's Special"},
	}
}

// DemoAddons returns the demo add-on groups.
func DemoAddons() []catalog.Addon {
	return []catalog.Addon{
		{
			ID:            addonToppingsID,
			Name:          "Extra Toppings",
			Description:   "Pile it on",
			SelectionMode: catalog.SelectionMulti,
			Options: []catalog.AddonOption{
				{Name: "Cheese", UnitPrice: 20, UnitLabel: "slice"},
				{Name: "Olives", UnitPrice: 15, UnitLabel: "portion"},
				{Name: "Jalapenos", UnitPrice: 15, UnitLabel: "portion"},
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
	}
}

// DemoItems returns the demo item list spanning food and non-food.
func DemoItems() []catalog.Item {
	calPoha := 280
	return []catalog.Item{
		{
			ID:          uuid.MustParse("8d5d2a10-0006-4b0e-9c70-000000000001"),
			ServiceID:   svcRoomServiceID,
			CategoryID:  catBreakfastID,
			Name:        "Poha",
			Description: "Flattened rice with peanuts and curry leaves",
			Price:       120,
			IsFoodItem:  true,
			DietaryType: catalog.DietaryVeg,
			Calories:    &calPoha,
			PortionSize: "Regular",
			Tags:        []string{"Spicy", "Bestseller"},
			Available:   true,
		},
		{
			ID:          uuid.MustParse("8d5d2a10-0006-4b0e-9c70-000000000002"),
			ServiceID:   svcRoomServiceID,
			CategoryID:  catBreakfastID,
			Name:        "Masala Omelette",
			Price:       150,
			IsFoodItem:  true,
			DietaryType: catalog.DietaryEgg,
			Available:   true,
		},
		{
			ID:            uuid.MustParse("8d5d2a10-0006-4b0e-9c70-000000000003"),
			ServiceID:     svcRoomServiceID,
			CategoryID:    catPizzaID,
			SubCategoryID: &subVegPizzaID,
			Name:          "Margherita",
			Price:         350,
			IsFoodItem:    true,
			DietaryType:   catalog.DietaryVeg,
			HasAddons:     true,
			AddonIDs:      []uuid.UUID{addonToppingsID, addonCrustID},
			Available:     true,
		},
		{
			ID:            uuid.MustParse("8d5d2a10-0006-4b0e-9c70-000000000004"),
			ServiceID:     svcRoomServiceID,
			CategoryID:    catPizzaID,
			SubCategoryID: &subMeatPizzaID,
			Name:          "Pepperoni",
			Price:         420,
			IsFoodItem:    true,
			DietaryType:   catalog.DietaryNonVeg,
			HasAddons:     true,
			AddonIDs:      []uuid.UUID{addonToppingsID, addonCrustID},
			Tags:          []string{"Bestseller"},
			Available:     true,
		},
		{
			ID:           uuid.MustParse("8d5d2a10-0006-4b0e-9c70-000000000005"),
			ServiceID:    svcSpaID,
			CategoryID:   catMassageID,
			Name:         "Deep Tissue Massage",
			Price:        2500,
			PricePerUnit: "60 min",
			IsFoodItem:   false,
			Available:    true,
		},
	}
}
