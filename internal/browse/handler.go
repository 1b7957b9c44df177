package browse

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/appetiteclub/concierge/internal/catalog"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20 // 1 MB

// Handler serves the guest-facing browsing API. Everything here reads
// the in-memory catalog mirror; the admin backend is never on a guest
// request path.
type Handler struct {
	store    *catalog.Store
	sessions *SessionCache
	logger   aqm.Logger
	config   *aqm.Config
	tlm      *telemetry.HTTP
}

// NewHandler creates a new Handler for browsing operations.
func NewHandler(store *catalog.Store, sessions *SessionCache, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		store:    store,
		sessions: sessions,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
	}
}

// RegisterRoutes registers all routes for the browsing surface.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/browse", func(r chi.Router) {
		r.Get("/services", h.ListServices)
		r.Get("/services/{id}/categories", h.ListCategories)
		r.Get("/categories/{id}/subcategories", h.ListSubCategories)
		r.Get("/categories/{id}/items", h.ListItems)
		r.Get("/items/{id}", h.GetItem)
		r.Get("/items/{id}/addons", h.ListItemAddons)
		r.Post("/addons/{id}/quote", h.QuoteAddon)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)
			r.Get("/{id}", h.GetSession)
			r.Delete("/{id}", h.DeleteSession)
			r.Get("/{id}/items", h.SessionItems)
			r.Put("/{id}/service", h.SessionSelectService)
			r.Put("/{id}/category", h.SessionSelectCategory)
			r.Post("/{id}/category/advance", h.SessionAdvanceCategory)
			r.Put("/{id}/subcategory", h.SessionSelectSubCategory)
			r.Put("/{id}/filters", h.SessionSetFilters)
			r.Delete("/{id}/filters", h.SessionResetFilters)
		})
	})
}

// Catalog handlers

// ListServices handles GET /browse/services
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListServices")
	defer finish()

	services := h.store.ActiveServices()
	aqm.RespondCollection(w, services, "catalog/service")
}

// ListCategories handles GET /browse/services/{id}/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListCategories")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	service, found := h.store.GetService(id)
	if !found || !service.Active {
		aqm.RespondError(w, http.StatusNotFound, "Service not available")
		return
	}

	categories := h.store.CategoriesByService(id)
	aqm.RespondCollection(w, categories, "catalog/category")
}

// ListSubCategories handles GET /browse/categories/{id}/subcategories
func (h *Handler) ListSubCategories(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListSubCategories")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if _, found := h.store.GetCategory(id); !found {
		aqm.RespondError(w, http.StatusNotFound, "Category not found")
		return
	}

	subcategories := h.store.SubCategoriesByCategory(id)
	aqm.RespondCollection(w, subcategories, "catalog/subcategory")
}

// ListItems handles GET /browse/categories/{id}/items with optional
// subcategory, dietary, tag and sort query parameters.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListItems")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if _, found := h.store.GetCategory(id); !found {
		aqm.RespondError(w, http.StatusNotFound, "Category not found")
		return
	}

	query := catalog.ItemQuery{
		CategoryID: id,
		Filters:    catalog.DefaultFilters(),
	}

	if raw := r.URL.Query().Get("subcategory"); raw != "" {
		subID, err := uuid.Parse(raw)
		if err != nil {
			log.Debug("invalid subcategory parameter", "value", raw, "error", err)
			aqm.RespondError(w, http.StatusBadRequest, "Invalid subcategory parameter")
			return
		}
		query.SubCategoryID = &subID
	}

	if raw := r.URL.Query().Get("dietary"); raw != "" {
		dietary := catalog.DietaryType(raw)
		if !catalog.ValidDietaryType(dietary) {
			aqm.RespondError(w, http.StatusBadRequest, "Invalid dietary parameter")
			return
		}
		query.Filters.Dietary = dietary
	}

	query.Filters.Tag = r.URL.Query().Get("tag")

	if raw := r.URL.Query().Get("sort"); raw != "" {
		sort := catalog.PriceSort(raw)
		if !catalog.ValidPriceSort(sort) {
			aqm.RespondError(w, http.StatusBadRequest, "Invalid sort parameter")
			return
		}
		query.Filters.Sort = sort
	}

	items := h.store.QueryItems(query)
	aqm.RespondCollection(w, items, "catalog/item")
}

// GetItem handles GET /browse/items/{id}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetItem")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	item, found := h.store.GetItem(id)
	if !found {
		aqm.RespondError(w, http.StatusNotFound, "Item not found")
		return
	}

	links := aqm.RESTfulLinksFor(&item)
	aqm.RespondSuccess(w, item, links...)
}

// ListItemAddons handles GET /browse/items/{id}/addons
func (h *Handler) ListItemAddons(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListItemAddons")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	item, found := h.store.GetItem(id)
	if !found {
		aqm.RespondError(w, http.StatusNotFound, "Item not found")
		return
	}

	addons := h.store.AddonsForItem(item.ID)
	aqm.RespondCollection(w, addons, "catalog/addon")
}

type addonQuoteRequest struct {
	Options []string `json:"options"`
}

type addonQuoteResponse struct {
	AddonID    uuid.UUID `json:"addon_id"`
	Options    []string  `json:"options"`
	TotalPrice float64   `json:"total_price"`
}

// QuoteAddon handles POST /browse/addons/{id}/quote. It prices a
// selection against an add-on group without creating any order state.
func (h *Handler) QuoteAddon(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.QuoteAddon")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	addon, found := h.store.GetAddon(id)
	if !found {
		aqm.RespondError(w, http.StatusNotFound, "Addon not found")
		return
	}

	var req addonQuoteRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	var selection catalog.Selection
	switch addon.SelectionMode {
	case catalog.SelectionSingle:
		if len(req.Options) != 1 {
			aqm.RespondError(w, http.StatusBadRequest, "Single-select addon requires exactly one option")
			return
		}
		selection = catalog.Single(req.Options[0])
	case catalog.SelectionMulti:
		selection = catalog.Multi(req.Options...)
	default:
		log.Error("addon with unknown selection mode in catalog", "addon_id", addon.ID.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Addon selection mode not supported")
		return
	}

	total, err := addon.TotalPrice(selection)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownOption) {
			aqm.RespondError(w, http.StatusBadRequest, "Selection references an unknown option")
			return
		}
		log.Debug("addon quote rejected", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid selection")
		return
	}

	aqm.RespondSuccess(w, addonQuoteResponse{
		AddonID:    addon.ID,
		Options:    req.Options,
		TotalPrice: total,
	})
}

// Session handlers

// CreateSession handles POST /browse/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateSession")
	defer finish()

	session := h.sessions.Create()
	state := session.State(h.store)

	links := aqm.RESTfulLinksFor(&state)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, state, links...)
}

// GetSession handles GET /browse/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSession")
	defer finish()
	log := h.log(r)

	session, ok := h.lookupSession(w, r, log)
	if !ok {
		return
	}

	state := session.State(h.store)
	links := aqm.RESTfulLinksFor(&state)
	aqm.RespondSuccess(w, state, links...)
}

// DeleteSession handles DELETE /browse/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteSession")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	h.sessions.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

// SessionItems handles GET /browse/sessions/{id}/items
func (h *Handler) SessionItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SessionItems")
	defer finish()
	log := h.log(r)

	session, ok := h.lookupSession(w, r, log)
	if !ok {
		return
	}

	items := session.Items(h.store)
	aqm.RespondCollection(w, items, "catalog/item")
}

// SessionSelectService handles PUT /browse/sessions/{id}/service
func (h *Handler) SessionSelectService(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SessionSelectService")
	defer finish()
	log := h.log(r)

	session, ok := h.lookupSession(w, r, log)
	if !ok {
		return
	}

	var req struct {
		ServiceID uuid.UUID `json:"service_id"`
	}
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	if err := session.SelectService(req.ServiceID); err != nil {
		h.respondCursorError(w, log, err)
		return
	}

	h.respondState(w, session)
}

// SessionSelectCategory handles PUT /browse/sessions/{id}/category
func (h *Handler) SessionSelectCategory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SessionSelectCategory")
	defer finish()
	log := h.log(r)

	session, ok := h.lookupSession(w, r, log)
	if !ok {
		return
	}

	var req struct {
		Index int `json:"index"`
	}
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	if err := session.SelectCategory(req.Index); err != nil {
		h.respondCursorError(w, log, err)
		return
	}

	h.respondState(w, session)
}

// SessionAdvanceCategory handles POST /browse/sessions/{id}/category/advance
func (h *Handler) SessionAdvanceCategory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SessionAdvanceCategory")
	defer finish()
	log := h.log(r)

	session, ok := h.lookupSession(w, r, log)
	if !ok {
		return
	}

	var req struct {
		Direction catalog.Direction `json:"direction"`
	}
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if req.Direction != catalog.DirectionNext && req.Direction != catalog.DirectionPrev {
		aqm.RespondError(w, http.StatusBadRequest, "Direction must be next or prev")
		return
	}

	if err := session.AdvanceCategory(req.Direction); err != nil {
		h.respondCursorError(w, log, err)
		return
	}

	h.respondState(w, session)
}

// SessionSelectSubCategory handles PUT /browse/sessions/{id}/subcategory
func (h *Handler) SessionSelectSubCategory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SessionSelectSubCategory")
	defer finish()
	log := h.log(r)

	session, ok := h.lookupSession(w, r, log)
	if !ok {
		return
	}

	var req struct {
		SubCategoryID uuid.UUID `json:"subcategory_id"`
	}
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	if err := session.SelectSubCategory(req.SubCategoryID); err != nil {
		h.respondCursorError(w, log, err)
		return
	}

	h.respondState(w, session)
}

// SessionSetFilters handles PUT /browse/sessions/{id}/filters
func (h *Handler) SessionSetFilters(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SessionSetFilters")
	defer finish()
	log := h.log(r)

	session, ok := h.lookupSession(w, r, log)
	if !ok {
		return
	}

	var filters catalog.FilterState
	if !h.decodePayload(w, r, log, &filters) {
		return
	}

	if err := session.SetFilters(filters); err != nil {
		log.Debug("filter update rejected", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondState(w, session)
}

// SessionResetFilters handles DELETE /browse/sessions/{id}/filters
func (h *Handler) SessionResetFilters(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SessionResetFilters")
	defer finish()
	log := h.log(r)

	session, ok := h.lookupSession(w, r, log)
	if !ok {
		return
	}

	session.ResetFilters()
	h.respondState(w, session)
}

// Helpers

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

func (h *Handler) respondState(w http.ResponseWriter, session *Session) {
	state := session.State(h.store)
	links := aqm.RESTfulLinksFor(&state)
	aqm.RespondSuccess(w, state, links...)
}

func (h *Handler) respondCursorError(w http.ResponseWriter, log aqm.Logger, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotPositioned):
		aqm.RespondError(w, http.StatusConflict, "Catalog not loaded yet")
	case errors.Is(err, catalog.ErrForeignSubCategory):
		aqm.RespondError(w, http.StatusBadRequest, "Subcategory does not belong to the active category")
	default:
		log.Debug("cursor move rejected", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
	}
}

func (h *Handler) lookupSession(w http.ResponseWriter, r *http.Request, log aqm.Logger) (*Session, bool) {
	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return nil, false
	}

	session := h.sessions.Get(id)
	if session == nil {
		aqm.RespondError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return session, true
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log aqm.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		log.Debug("missing id parameter")
		aqm.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr, "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, log aqm.Logger, dest interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}

	if err := json.Unmarshal(body, dest); err != nil {
		log.Debug("error decoding JSON", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}

	return true
}
