package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

// Store mirrors the backend catalog in memory: one ordered collection per
// resource family, keyed lookups, and a per-family loaded flag so consumers
// can tell "not loaded" from "loaded but empty".
//
// All mutation goes through Load/restore; accessors hand out copies so no
// caller can mutate the collections by reference.
type Store struct {
	mu        sync.RWMutex
	loader    Loader
	snapshots SnapshotRepo
	logger    aqm.Logger

	services      []Service
	categories    []Category
	subcategories []SubCategory
	items         []Item
	tags          []Tag
	addons        []Addon

	serviceIdx     map[uuid.UUID]int
	categoryIdx    map[uuid.UUID]int
	subCategoryIdx map[uuid.UUID]int
	itemIdx        map[uuid.UUID]int
	tagIdx         map[uuid.UUID]int
	addonIdx       map[uuid.UUID]int

	categoriesByService map[uuid.UUID][]int
	subsByCategory      map[uuid.UUID][]int
	itemsByCategory     map[uuid.UUID][]int

	loaded map[Family]bool
	// issued tracks the newest load generation per family. A completing
	// load applies its result only while its generation is still the
	// newest, so a stale slow response never clobbers a newer one.
	issued map[Family]uint64
}

// NewStore creates a catalog store. The snapshot repo is optional; with a
// nil repo the store simply skips warm-start persistence.
func NewStore(loader Loader, snapshots SnapshotRepo, logger aqm.Logger) *Store {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Store{
		loader:              loader,
		snapshots:           snapshots,
		logger:              logger,
		serviceIdx:          make(map[uuid.UUID]int),
		categoryIdx:         make(map[uuid.UUID]int),
		subCategoryIdx:      make(map[uuid.UUID]int),
		itemIdx:             make(map[uuid.UUID]int),
		tagIdx:              make(map[uuid.UUID]int),
		addonIdx:            make(map[uuid.UUID]int),
		categoriesByService: make(map[uuid.UUID][]int),
		subsByCategory:      make(map[uuid.UUID][]int),
		itemsByCategory:     make(map[uuid.UUID][]int),
		loaded:              make(map[Family]bool),
		issued:              make(map[Family]uint64),
	}
}

// Loaded reports whether the family has completed at least one successful
// load. Restored snapshots do not count as loaded.
func (s *Store) Loaded(family Family) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded[family]
}

// Load fetches a family from the backend and replaces the collection
// wholesale. A failed fetch leaves both the loaded flag and any previous
// data untouched; stale data beats cleared state on transient failure.
func (s *Store) Load(ctx context.Context, family Family) error {
	if !ValidFamily(family) {
		return fmt.Errorf("unknown catalog family %q", family)
	}
	if s.loader == nil {
		return fmt.Errorf("catalog loader not configured")
	}

	gen := s.beginLoad(family)

	var applied bool
	switch family {
	case FamilyServices:
		list, err := s.loader.ListServices(ctx)
		if err != nil {
			return fmt.Errorf("load services: %w", err)
		}
		applied = s.replaceServices(list, gen, true)
	case FamilyCategories:
		list, err := s.loader.ListCategories(ctx)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		applied = s.replaceCategories(list, gen, true)
	case FamilySubCategories:
		list, err := s.loader.ListSubCategories(ctx)
		if err != nil {
			return fmt.Errorf("load subcategories: %w", err)
		}
		applied = s.replaceSubCategories(list, gen, true)
	case FamilyItems:
		list, err := s.loader.ListItems(ctx)
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		applied = s.replaceItems(list, gen, true)
	case FamilyTags:
		list, err := s.loader.ListTags(ctx)
		if err != nil {
			return fmt.Errorf("load tags: %w", err)
		}
		applied = s.replaceTags(list, gen, true)
	case FamilyAddons:
		list, err := s.loader.ListAddons(ctx)
		if err != nil {
			return fmt.Errorf("load addons: %w", err)
		}
		applied = s.replaceAddons(list, gen, true)
	}

	if applied {
		s.persistSnapshot(ctx, family)
	}
	return nil
}

// LoadAll loads every family. Families fetch concurrently; there is no
// ordering guarantee between their completions, which consumers such as the
// cursor already tolerate. The first error is returned, but every family
// still gets its attempt.
func (s *Store) LoadAll(ctx context.Context) error {
	families := Families()

	var wg sync.WaitGroup
	errs := make([]error, len(families))
	for i, family := range families {
		wg.Add(1)
		go func(i int, family Family) {
			defer wg.Done()
			errs[i] = s.Load(ctx, family)
		}(i, family)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Warm brings the store up at boot: it tries a live load of every family
// and, for families the backend could not serve, falls back to the last
// persisted snapshot. Snapshot data is served with the loaded flag still
// false so callers know it may be stale. Warm never fails the service.
func (s *Store) Warm(ctx context.Context) error {
	for _, family := range Families() {
		if err := s.Load(ctx, family); err == nil {
			continue
		} else {
			s.logger.Infof("live load of %s failed, trying snapshot: %v", family, err)
		}

		if s.snapshots == nil {
			continue
		}
		payload, err := s.snapshots.LoadSnapshot(ctx, family)
		if err != nil {
			s.logger.Infof("no snapshot for %s: %v", family, err)
			continue
		}
		if err := s.restoreFamily(family, payload); err != nil {
			s.logger.Errorf("cannot restore %s snapshot: %v", family, err)
		}
	}
	return nil
}

// beginLoad issues a new generation for the family.
func (s *Store) beginLoad(family Family) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[family]++
	return s.issued[family]
}

// currentLocked reports whether gen is still the newest issued generation.
// Must be called with s.mu held.
func (s *Store) currentLocked(family Family, gen uint64) bool {
	if gen != s.issued[family] {
		s.logger.Debug("discarding stale load result", "family", string(family), "generation", gen)
		return false
	}
	return true
}

func (s *Store) replaceServices(list []Service, gen uint64, markLoaded bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(FamilyServices, gen) {
		return false
	}
	s.services = list
	s.serviceIdx = make(map[uuid.UUID]int, len(list))
	for i, svc := range list {
		s.serviceIdx[svc.ID] = i
	}
	if markLoaded {
		s.loaded[FamilyServices] = true
	}
	return true
}

func (s *Store) replaceCategories(list []Category, gen uint64, markLoaded bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(FamilyCategories, gen) {
		return false
	}
	s.categories = list
	s.categoryIdx = make(map[uuid.UUID]int, len(list))
	s.categoriesByService = make(map[uuid.UUID][]int)
	for i, cat := range list {
		s.categoryIdx[cat.ID] = i
		s.categoriesByService[cat.ServiceID] = append(s.categoriesByService[cat.ServiceID], i)
	}
	if markLoaded {
		s.loaded[FamilyCategories] = true
	}
	return true
}

func (s *Store) replaceSubCategories(list []SubCategory, gen uint64, markLoaded bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(FamilySubCategories, gen) {
		return false
	}
	s.subcategories = list
	s.subCategoryIdx = make(map[uuid.UUID]int, len(list))
	s.subsByCategory = make(map[uuid.UUID][]int)
	for i, sub := range list {
		s.subCategoryIdx[sub.ID] = i
		s.subsByCategory[sub.CategoryID] = append(s.subsByCategory[sub.CategoryID], i)
	}
	if markLoaded {
		s.loaded[FamilySubCategories] = true
	}
	return true
}

func (s *Store) replaceItems(list []Item, gen uint64, markLoaded bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(FamilyItems, gen) {
		return false
	}
	s.items = list
	s.itemIdx = make(map[uuid.UUID]int, len(list))
	s.itemsByCategory = make(map[uuid.UUID][]int)
	for i, item := range list {
		s.itemIdx[item.ID] = i
		s.itemsByCategory[item.CategoryID] = append(s.itemsByCategory[item.CategoryID], i)
	}
	if markLoaded {
		s.loaded[FamilyItems] = true
	}
	return true
}

func (s *Store) replaceTags(list []Tag, gen uint64, markLoaded bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(FamilyTags, gen) {
		return false
	}
	s.tags = list
	s.tagIdx = make(map[uuid.UUID]int, len(list))
	for i, tag := range list {
		s.tagIdx[tag.ID] = i
	}
	if markLoaded {
		s.loaded[FamilyTags] = true
	}
	return true
}

func (s *Store) replaceAddons(list []Addon, gen uint64, markLoaded bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(FamilyAddons, gen) {
		return false
	}
	s.addons = list
	s.addonIdx = make(map[uuid.UUID]int, len(list))
	for i, addon := range list {
		s.addonIdx[addon.ID] = i
	}
	if markLoaded {
		s.loaded[FamilyAddons] = true
	}
	return true
}

// restoreFamily installs snapshot data without marking the family loaded.
// A concurrent live load that already succeeded wins over the snapshot.
func (s *Store) restoreFamily(family Family, payload []byte) error {
	if s.Loaded(family) {
		return nil
	}
	gen := s.beginLoad(family)

	switch family {
	case FamilyServices:
		var list []Service
		if err := json.Unmarshal(payload, &list); err != nil {
			return err
		}
		s.replaceServices(list, gen, false)
	case FamilyCategories:
		var list []Category
		if err := json.Unmarshal(payload, &list); err != nil {
			return err
		}
		s.replaceCategories(list, gen, false)
	case FamilySubCategories:
		var list []SubCategory
		if err := json.Unmarshal(payload, &list); err != nil {
			return err
		}
		s.replaceSubCategories(list, gen, false)
	case FamilyItems:
		var list []Item
		if err := json.Unmarshal(payload, &list); err != nil {
			return err
		}
		s.replaceItems(list, gen, false)
	case FamilyTags:
		var list []Tag
		if err := json.Unmarshal(payload, &list); err != nil {
			return err
		}
		s.replaceTags(list, gen, false)
	case FamilyAddons:
		var list []Addon
		if err := json.Unmarshal(payload, &list); err != nil {
			return err
		}
		s.replaceAddons(list, gen, false)
	default:
		return fmt.Errorf("unknown catalog family %q", family)
	}

	s.logger.Infof("restored %s from snapshot", family)
	return nil
}

// persistSnapshot saves the family's current payload, best effort.
func (s *Store) persistSnapshot(ctx context.Context, family Family) {
	if s.snapshots == nil {
		return
	}
	payload, err := s.marshalFamily(family)
	if err != nil {
		s.logger.Errorf("cannot marshal %s snapshot: %v", family, err)
		return
	}
	if err := s.snapshots.SaveSnapshot(ctx, family, payload); err != nil {
		s.logger.Errorf("cannot persist %s snapshot: %v", family, err)
	}
}

func (s *Store) marshalFamily(family Family) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch family {
	case FamilyServices:
		return json.Marshal(s.services)
	case FamilyCategories:
		return json.Marshal(s.categories)
	case FamilySubCategories:
		return json.Marshal(s.subcategories)
	case FamilyItems:
		return json.Marshal(s.items)
	case FamilyTags:
		return json.Marshal(s.tags)
	case FamilyAddons:
		return json.Marshal(s.addons)
	}
	return nil, fmt.Errorf("unknown catalog family %q", family)
}

// Read accessors. All of them return copies.

// Services returns every mirrored service in catalog order.
func (s *Store) Services() []Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Service, len(s.services))
	copy(out, s.services)
	return out
}

// ActiveServices returns the services available on browsing paths.
// Inactive services are excluded, never deleted.
func (s *Store) ActiveServices() []Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Service, 0, len(s.services))
	for _, svc := range s.services {
		if svc.Active {
			out = append(out, svc)
		}
	}
	return out
}

// GetService returns the service with the given id.
func (s *Store) GetService(id uuid.UUID) (Service, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.serviceIdx[id]
	if !ok {
		return Service{}, false
	}
	return s.services[i], true
}

// Categories returns categories whose parent service is known. Orphaned
// categories (service deleted upstream) are filtered from selection but
// remain mirrored until the backend removes them.
func (s *Store) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Category, 0, len(s.categories))
	for _, cat := range s.categories {
		if s.loaded[FamilyServices] {
			if _, ok := s.serviceIdx[cat.ServiceID]; !ok {
				continue
			}
		}
		out = append(out, cat)
	}
	return out
}

// CategoriesByService returns the service's categories in catalog order.
func (s *Store) CategoriesByService(serviceID uuid.UUID) []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idxs := s.categoriesByService[serviceID]
	out := make([]Category, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, s.categories[i])
	}
	return out
}

// GetCategory returns the category with the given id.
func (s *Store) GetCategory(id uuid.UUID) (Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.categoryIdx[id]
	if !ok {
		return Category{}, false
	}
	return s.categories[i], true
}

// SubCategoriesByCategory returns the category's subcategories in catalog order.
func (s *Store) SubCategoriesByCategory(categoryID uuid.UUID) []SubCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idxs := s.subsByCategory[categoryID]
	out := make([]SubCategory, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, s.subcategories[i])
	}
	return out
}

// GetSubCategory returns the subcategory with the given id.
func (s *Store) GetSubCategory(id uuid.UUID) (SubCategory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.subCategoryIdx[id]
	if !ok {
		return SubCategory{}, false
	}
	return s.subcategories[i], true
}

// GetItem returns the item with the given id.
func (s *Store) GetItem(id uuid.UUID) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.itemIdx[id]
	if !ok {
		return Item{}, false
	}
	return s.items[i], true
}

// ItemsByCategory returns the category's items in catalog order, before any
// filtering. The filter engine builds on this so it never scans the global
// item list.
func (s *Store) ItemsByCategory(categoryID uuid.UUID) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idxs := s.itemsByCategory[categoryID]
	out := make([]Item, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, s.items[i])
	}
	return out
}

// Tags returns every mirrored tag.
func (s *Store) Tags() []Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

// GetTag returns the tag with the given id.
func (s *Store) GetTag(id uuid.UUID) (Tag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.tagIdx[id]
	if !ok {
		return Tag{}, false
	}
	return s.tags[i], true
}

// Addons returns every mirrored add-on group.
func (s *Store) Addons() []Addon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Addon, len(s.addons))
	copy(out, s.addons)
	return out
}

// GetAddon returns the add-on with the given id.
func (s *Store) GetAddon(id uuid.UUID) (Addon, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.addonIdx[id]
	if !ok {
		return Addon{}, false
	}
	return s.addons[i], true
}

// AddonsForItem resolves the item's add-on references. Dangling references
// resolve to nothing for that slot; the condition is logged, never fatal.
func (s *Store) AddonsForItem(itemID uuid.UUID) []Addon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.itemIdx[itemID]
	if !ok {
		return nil
	}
	item := s.items[i]
	out := make([]Addon, 0, len(item.AddonIDs))
	for _, addonID := range item.AddonIDs {
		j, ok := s.addonIdx[addonID]
		if !ok {
			s.logger.Debug("item references unknown add-on", "item_id", itemID.String(), "addon_id", addonID.String())
			continue
		}
		out = append(out, s.addons[j])
	}
	return out
}

// ItemsReferencingAddon returns the ids of items that link the add-on.
// Used to guard add-on deletion.
func (s *Store) ItemsReferencingAddon(addonID uuid.UUID) []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []uuid.UUID
	for _, item := range s.items {
		if item.ReferencesAddon(addonID) {
			out = append(out, item.ID)
		}
	}
	return out
}
