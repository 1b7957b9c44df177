package catalog

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func itemNames(items []Item) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

func TestQueryItemsEmptySubCategorySet(t *testing.T) {
	store := loadedStore(t)

	// Breakfast has no subcategories; a nil subcategory scope returns its
	// direct items ordered by price, without requiring a subcategory id.
	items := store.QueryItems(ItemQuery{
		CategoryID: catBreakfastID,
		Filters:    DefaultFilters(),
	})

	want := []string{"Upma", "Poha"} // 80 before 120
	if got := itemNames(items); !reflect.DeepEqual(got, want) {
		t.Errorf("QueryItems() = %v, want %v", got, want)
	}
}

func TestQueryItemsNilSubCategoryIsStrict(t *testing.T) {
	store := loadedStore(t)

	// Pizza items all live under subcategories; a nil scope must not act
	// as a wildcard over them.
	items := store.QueryItems(ItemQuery{
		CategoryID: catPizzaID,
		Filters:    DefaultFilters(),
	})
	if len(items) != 0 {
		t.Errorf("nil subcategory scope returned %d items, want 0", len(items))
	}

	sub := subVegPizzaID
	items = store.QueryItems(ItemQuery{
		CategoryID:    catPizzaID,
		SubCategoryID: &sub,
		Filters:       DefaultFilters(),
	})
	if got := itemNames(items); !reflect.DeepEqual(got, []string{"Margherita"}) {
		t.Errorf("QueryItems(veg pizza) = %v, want [Margherita]", got)
	}
}

func TestQueryItemsTagFilterExclusivity(t *testing.T) {
	store := loadedStore(t)

	q := ItemQuery{CategoryID: catBreakfastID, Filters: DefaultFilters()}
	q.Filters.Tag = "Spicy"

	items := store.QueryItems(q)
	if got := itemNames(items); !reflect.DeepEqual(got, []string{"Poha"}) {
		t.Errorf("QueryItems(tag=Spicy) = %v, want [Poha]", got)
	}
}

func TestQueryItemsDietaryFilter(t *testing.T) {
	store := loadedStore(t)

	tests := []struct {
		name    string
		dietary DietaryType
		want    []string
	}{
		{name: "all", dietary: DietaryNone, want: []string{"Upma", "Poha"}},
		{name: "veg", dietary: DietaryVeg, want: []string{"Poha"}},
		{name: "egg", dietary: DietaryEgg, want: []string{"Upma"}},
		{name: "nonVeg", dietary: DietaryNonVeg, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ItemQuery{CategoryID: catBreakfastID, Filters: DefaultFilters()}
			q.Filters.Dietary = tt.dietary
			got := itemNames(store.QueryItems(q))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("QueryItems(dietary=%s) = %v, want %v", tt.dietary, got, tt.want)
			}
		})
	}
}

func TestQueryItemsIdempotent(t *testing.T) {
	store := loadedStore(t)

	q := ItemQuery{CategoryID: catBreakfastID, Filters: DefaultFilters()}
	q.Filters.Tag = "Bestseller"

	first := store.QueryItems(q)
	second := store.QueryItems(q)
	if !reflect.DeepEqual(first, second) {
		t.Error("the same query over an unchanged catalog must yield identical output")
	}
}

func TestQueryItemsStableSort(t *testing.T) {
	// Three items sharing one price plus one cheaper: ties must keep
	// catalog order in both directions; only strict inequalities flip.
	loader := fixtureLoader()
	loader.Items = []Item{
		{ID: testID(61), CategoryID: catBreakfastID, ServiceID: svcRoomServiceID, Name: "Idli", Price: 100},
		{ID: testID(62), CategoryID: catBreakfastID, ServiceID: svcRoomServiceID, Name: "Dosa", Price: 100},
		{ID: testID(63), CategoryID: catBreakfastID, ServiceID: svcRoomServiceID, Name: "Vada", Price: 60},
		{ID: testID(64), CategoryID: catBreakfastID, ServiceID: svcRoomServiceID, Name: "Uttapam", Price: 100},
	}
	store := NewStore(loader, nil, nil)
	if err := store.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	asc := ItemQuery{CategoryID: catBreakfastID, Filters: DefaultFilters()}
	gotAsc := itemNames(store.QueryItems(asc))
	wantAsc := []string{"Vada", "Idli", "Dosa", "Uttapam"}
	if !reflect.DeepEqual(gotAsc, wantAsc) {
		t.Errorf("ascending = %v, want %v", gotAsc, wantAsc)
	}

	desc := asc
	desc.Filters.Sort = PriceDesc
	gotDesc := itemNames(store.QueryItems(desc))
	wantDesc := []string{"Idli", "Dosa", "Uttapam", "Vada"}
	if !reflect.DeepEqual(gotDesc, wantDesc) {
		t.Errorf("descending = %v, want %v", gotDesc, wantDesc)
	}
}

func TestQueryItemsUnknownCategory(t *testing.T) {
	store := loadedStore(t)

	items := store.QueryItems(ItemQuery{
		CategoryID: testID(999),
		Filters:    DefaultFilters(),
	})
	if len(items) != 0 {
		t.Errorf("QueryItems(unknown category) = %d items, want 0", len(items))
	}
}

func TestDietaryApplicable(t *testing.T) {
	store := loadedStore(t)

	if !store.DietaryApplicable(catBreakfastID) {
		t.Error("breakfast holds food items; dietary filter must be applicable")
	}
	// Massage has no food items: the dietary selector stays disabled no
	// matter what the global filter state says.
	if store.DietaryApplicable(catMassageID) {
		t.Error("dietary filter must not be applicable to a non-food category")
	}
	if store.DietaryApplicable(testID(999)) {
		t.Error("dietary filter must not be applicable to an unknown category")
	}
}

func TestFilterStateReset(t *testing.T) {
	f := FilterState{Dietary: DietaryVeg, Tag: "Spicy", Sort: PriceDesc}
	f.Reset()
	if !reflect.DeepEqual(f, DefaultFilters()) {
		t.Errorf("Reset() = %+v, want %+v", f, DefaultFilters())
	}
}

func TestQueryItemsSubCategoryEquality(t *testing.T) {
	// Guard against pointer comparison: equal UUIDs behind distinct
	// pointers must match.
	store := loadedStore(t)

	sub := uuid.MustParse(subMeatPizzaID.String())
	items := store.QueryItems(ItemQuery{
		CategoryID:    catPizzaID,
		SubCategoryID: &sub,
		Filters:       DefaultFilters(),
	})
	if got := itemNames(items); !reflect.DeepEqual(got, []string{"Pepperoni"}) {
		t.Errorf("QueryItems(meat pizza) = %v, want [Pepperoni]", got)
	}
}
