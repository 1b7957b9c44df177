package browse

import (
	"fmt"
	"sync"
	"time"

	"github.com/appetiteclub/concierge/internal/catalog"
	"github.com/google/uuid"
)

// Session holds one guest's browsing state: a catalog cursor plus the
// global filter set. The mutex serializes handler calls for a single
// session; distinct sessions never contend.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	cursor   *catalog.Cursor
	filters  catalog.FilterState
	lastSeen time.Time
}

// SessionState is the wire view of a session.
type SessionState struct {
	SessionID         uuid.UUID           `json:"session_id"`
	Positioned        bool                `json:"positioned"`
	ServiceID         *uuid.UUID          `json:"service_id,omitempty"`
	CategoryIndex     int                 `json:"category_index"`
	CategoryID        *uuid.UUID          `json:"category_id,omitempty"`
	SubCategoryID     *uuid.UUID          `json:"subcategory_id,omitempty"`
	Filters           catalog.FilterState `json:"filters"`
	DietaryApplicable bool                `json:"dietary_applicable"`
}

// GetID implements the linkable resource contract.
func (s *SessionState) GetID() uuid.UUID {
	return s.SessionID
}

func (s *SessionState) ResourceType() string {
	return "browse/session"
}

func NewSession(store *catalog.Store) *Session {
	return &Session{
		ID:       uuid.New(),
		cursor:   catalog.NewCursor(store),
		filters:  catalog.DefaultFilters(),
		lastSeen: time.Now().UTC(),
	}
}

func (s *Session) touch() {
	s.lastSeen = time.Now().UTC()
}

// State reports the session's current position and filters.
func (s *Session) State(store *catalog.Store) SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	state := SessionState{
		SessionID: s.ID,
		Filters:   s.filters,
	}

	pos, ok := s.cursor.Position()
	if !ok {
		return state
	}

	state.Positioned = true
	serviceID := pos.ServiceID
	state.ServiceID = &serviceID
	state.CategoryIndex = pos.CategoryIndex
	state.CategoryID = pos.CategoryID
	state.SubCategoryID = pos.SubCategoryID
	if pos.CategoryID != nil {
		state.DietaryApplicable = store.DietaryApplicable(*pos.CategoryID)
	}
	return state
}

// SelectService moves the session to another service.
func (s *Session) SelectService(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.cursor.SelectService(id)
}

// SelectCategory moves the session to the category at index.
func (s *Session) SelectCategory(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.cursor.SelectCategory(index)
}

// AdvanceCategory steps the category cursor, wrapping at the edges.
func (s *Session) AdvanceCategory(dir catalog.Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.cursor.AdvanceCategory(dir)
}

// SelectSubCategory picks a subcategory within the active category.
func (s *Session) SelectSubCategory(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.cursor.SelectSubCategory(id)
}

// SetFilters replaces the session's filter state.
func (s *Session) SetFilters(f catalog.FilterState) error {
	if f.Sort == "" {
		f.Sort = catalog.PriceAsc
	}
	if !catalog.ValidPriceSort(f.Sort) {
		return fmt.Errorf("unknown sort order %q", f.Sort)
	}
	if !catalog.ValidDietaryType(f.Dietary) {
		return fmt.Errorf("unknown dietary type %q", f.Dietary)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.filters = f
	return nil
}

// ResetFilters restores the default filter state.
func (s *Session) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.filters.Reset()
}

// Items evaluates the catalog at the session's position with its
// filters. An unpositioned session sees an empty list, same as a
// category with no matches.
func (s *Session) Items(store *catalog.Store) []catalog.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	pos, ok := s.cursor.Position()
	if !ok || pos.CategoryID == nil {
		return []catalog.Item{}
	}

	return store.QueryItems(catalog.ItemQuery{
		CategoryID:    *pos.CategoryID,
		SubCategoryID: pos.SubCategoryID,
		Filters:       s.filters,
	})
}

// LastSeen reports the session's last activity for idle eviction.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
