package manager

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/appetiteclub/concierge/internal/catalog"
	"github.com/appetiteclub/concierge/internal/event"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20 // 1 MB

// CatalogWriter is the slice of the backend the manager surface writes
// through. The backend stays the system of record; the local mirror is
// refreshed after each successful write.
type CatalogWriter interface {
	CreateItem(ctx context.Context, item *catalog.Item) error
	UpdateItem(ctx context.Context, item *catalog.Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	CreateAddon(ctx context.Context, addon *catalog.Addon) error
	UpdateAddon(ctx context.Context, addon *catalog.Addon) error
	DeleteAddon(ctx context.Context, id uuid.UUID) error
}

// Handler serves the staff-facing editing API for items and add-ons.
type Handler struct {
	store     *catalog.Store
	writer    CatalogWriter
	publisher events.Publisher
	logger    aqm.Logger
	config    *aqm.Config
	tlm       *telemetry.HTTP
}

// NewHandler creates a new Handler for catalog management operations.
func NewHandler(store *catalog.Store, writer CatalogWriter, publisher events.Publisher, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		store:     store,
		writer:    writer,
		publisher: publisher,
		logger:    logger,
		config:    config,
		tlm:       telemetry.NewHTTP(),
	}
}

// RegisterRoutes registers all routes for the management surface.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/manager", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Post("/", h.CreateItem)
			r.Put("/{id}", h.UpdateItem)
			r.Delete("/{id}", h.DeleteItem)
			r.Post("/{id}/addons/{addonID}", h.AttachAddon)
			r.Delete("/{id}/addons/{addonID}", h.DetachAddon)
		})

		r.Route("/addons", func(r chi.Router) {
			r.Post("/", h.CreateAddon)
			r.Put("/{id}", h.UpdateAddon)
			r.Delete("/{id}", h.DeleteAddon)
		})

		r.Post("/catalog/reload", h.ReloadCatalog)
	})
}

// Item handlers

// CreateItem handles POST /manager/items
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var item catalog.Item
	if !h.decodePayload(w, r, log, &item) {
		return
	}

	item.EnsureID()

	if validationErrors := catalog.ValidateItem(&item, h.store); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	if err := h.writer.CreateItem(ctx, &item); err != nil {
		log.Error("cannot create item", "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Could not create item")
		return
	}

	h.refresh(ctx, log, catalog.FamilyItems)
	h.publishChange(ctx, log, event.EventCatalogItemCreated, catalog.FamilyItems, item.ID, item.Name)

	links := aqm.RESTfulLinksFor(&item)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, item, links...)
}

// UpdateItem handles PUT /manager/items/{id}
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, "id", log)
	if !ok {
		return
	}

	if _, found := h.store.GetItem(id); !found {
		aqm.RespondError(w, http.StatusNotFound, "Item not found")
		return
	}

	var item catalog.Item
	if !h.decodePayload(w, r, log, &item) {
		return
	}
	item.ID = id

	if validationErrors := catalog.ValidateUpdateItem(&item, h.store); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	if err := h.writer.UpdateItem(ctx, &item); err != nil {
		log.Error("cannot update item", "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Could not update item")
		return
	}

	h.refresh(ctx, log, catalog.FamilyItems)
	h.publishChange(ctx, log, event.EventCatalogItemUpdated, catalog.FamilyItems, item.ID, item.Name)

	links := aqm.RESTfulLinksFor(&item)
	aqm.RespondSuccess(w, item, links...)
}

// DeleteItem handles DELETE /manager/items/{id}
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, "id", log)
	if !ok {
		return
	}

	if _, found := h.store.GetItem(id); !found {
		aqm.RespondError(w, http.StatusNotFound, "Item not found")
		return
	}

	if err := h.writer.DeleteItem(ctx, id); err != nil {
		log.Error("cannot delete item", "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Could not delete item")
		return
	}

	h.refresh(ctx, log, catalog.FamilyItems)
	h.publishChange(ctx, log, event.EventCatalogItemDeleted, catalog.FamilyItems, id, "")

	w.WriteHeader(http.StatusNoContent)
}

// AttachAddon handles POST /manager/items/{id}/addons/{addonID}
func (h *Handler) AttachAddon(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AttachAddon")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, "id", log)
	if !ok {
		return
	}
	addonID, ok := h.parseIDParam(w, r, "addonID", log)
	if !ok {
		return
	}

	item, found := h.store.GetItem(id)
	if !found {
		aqm.RespondError(w, http.StatusNotFound, "Item not found")
		return
	}
	if _, found := h.store.GetAddon(addonID); !found {
		aqm.RespondError(w, http.StatusNotFound, "Addon not found")
		return
	}

	if !item.ReferencesAddon(addonID) {
		// GetItem copies the struct but AddonIDs still shares its backing
		// array with the store mirror; build a fresh slice so the mirror
		// only ever changes through a family load.
		refs := make([]uuid.UUID, 0, len(item.AddonIDs)+1)
		refs = append(refs, item.AddonIDs...)
		item.AddonIDs = append(refs, addonID)
		item.HasAddons = true

		if err := h.writer.UpdateItem(ctx, &item); err != nil {
			log.Error("cannot attach addon", "error", err)
			aqm.RespondError(w, http.StatusBadGateway, "Could not attach addon")
			return
		}

		h.refresh(ctx, log, catalog.FamilyItems)
		h.publishChange(ctx, log, event.EventCatalogItemUpdated, catalog.FamilyItems, item.ID, item.Name)
	}

	links := aqm.RESTfulLinksFor(&item)
	aqm.RespondSuccess(w, item, links...)
}

// DetachAddon handles DELETE /manager/items/{id}/addons/{addonID}
func (h *Handler) DetachAddon(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DetachAddon")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, "id", log)
	if !ok {
		return
	}
	addonID, ok := h.parseIDParam(w, r, "addonID", log)
	if !ok {
		return
	}

	item, found := h.store.GetItem(id)
	if !found {
		aqm.RespondError(w, http.StatusNotFound, "Item not found")
		return
	}

	if item.ReferencesAddon(addonID) {
		// Same aliasing as AttachAddon: filtering item.AddonIDs in place
		// would compact the mirror's backing array behind its lock.
		refs := make([]uuid.UUID, 0, len(item.AddonIDs))
		for _, ref := range item.AddonIDs {
			if ref != addonID {
				refs = append(refs, ref)
			}
		}
		item.AddonIDs = refs
		item.HasAddons = len(refs) > 0

		if err := h.writer.UpdateItem(ctx, &item); err != nil {
			log.Error("cannot detach addon", "error", err)
			aqm.RespondError(w, http.StatusBadGateway, "Could not detach addon")
			return
		}

		h.refresh(ctx, log, catalog.FamilyItems)
		h.publishChange(ctx, log, event.EventCatalogItemUpdated, catalog.FamilyItems, item.ID, item.Name)
	}

	links := aqm.RESTfulLinksFor(&item)
	aqm.RespondSuccess(w, item, links...)
}

// Addon handlers

// CreateAddon handles POST /manager/addons
func (h *Handler) CreateAddon(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateAddon")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var addon catalog.Addon
	if !h.decodePayload(w, r, log, &addon) {
		return
	}

	addon.EnsureID()

	if validationErrors := catalog.ValidateAddon(&addon); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	if err := h.writer.CreateAddon(ctx, &addon); err != nil {
		log.Error("cannot create addon", "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Could not create addon")
		return
	}

	h.refresh(ctx, log, catalog.FamilyAddons)
	h.publishChange(ctx, log, event.EventCatalogAddonCreated, catalog.FamilyAddons, addon.ID, addon.Name)

	links := aqm.RESTfulLinksFor(&addon)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, addon, links...)
}

// UpdateAddon handles PUT /manager/addons/{id}
func (h *Handler) UpdateAddon(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateAddon")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, "id", log)
	if !ok {
		return
	}

	if _, found := h.store.GetAddon(id); !found {
		aqm.RespondError(w, http.StatusNotFound, "Addon not found")
		return
	}

	var addon catalog.Addon
	if !h.decodePayload(w, r, log, &addon) {
		return
	}
	addon.ID = id

	if validationErrors := catalog.ValidateUpdateAddon(&addon); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	if err := h.writer.UpdateAddon(ctx, &addon); err != nil {
		log.Error("cannot update addon", "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Could not update addon")
		return
	}

	h.refresh(ctx, log, catalog.FamilyAddons)
	h.publishChange(ctx, log, event.EventCatalogAddonUpdated, catalog.FamilyAddons, addon.ID, addon.Name)

	links := aqm.RESTfulLinksFor(&addon)
	aqm.RespondSuccess(w, addon, links...)
}

// DeleteAddon handles DELETE /manager/addons/{id}. Deletion is refused
// while any item still references the group, so items can never hold
// dangling references of our own making.
func (h *Handler) DeleteAddon(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteAddon")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, "id", log)
	if !ok {
		return
	}

	if _, found := h.store.GetAddon(id); !found {
		aqm.RespondError(w, http.StatusNotFound, "Addon not found")
		return
	}

	if refs := h.store.ItemsReferencingAddon(id); len(refs) > 0 {
		ids := make([]string, len(refs))
		for i, ref := range refs {
			ids[i] = ref.String()
		}
		log.Debug("addon delete refused", "addon_id", id.String(), "referencing_items", ids)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":             "Addon is still referenced by items",
			"referencing_items": ids,
		})
		return
	}

	if err := h.writer.DeleteAddon(ctx, id); err != nil {
		log.Error("cannot delete addon", "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Could not delete addon")
		return
	}

	h.refresh(ctx, log, catalog.FamilyAddons)
	h.publishChange(ctx, log, event.EventCatalogAddonDeleted, catalog.FamilyAddons, id, "")

	w.WriteHeader(http.StatusNoContent)
}

// ReloadCatalog handles POST /manager/catalog/reload. An empty body
// reloads every family; {"family": "items"} reloads one.
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ReloadCatalog")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var req struct {
		Family string `json:"family"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()
	if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			log.Debug("error decoding JSON", "error", err)
			aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
			return
		}
	}

	if req.Family == "" {
		if err := h.store.LoadAll(ctx); err != nil {
			log.Error("full reload failed", "error", err)
			aqm.RespondError(w, http.StatusBadGateway, "Could not reload catalog")
			return
		}
		aqm.RespondSuccess(w, map[string]string{"status": "reloaded"})
		return
	}

	family := catalog.Family(req.Family)
	if !catalog.ValidFamily(family) {
		aqm.RespondError(w, http.StatusBadRequest, "Unknown catalog family")
		return
	}
	if err := h.store.Load(ctx, family); err != nil {
		log.Error("family reload failed", "family", req.Family, "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Could not reload catalog family")
		return
	}
	aqm.RespondSuccess(w, map[string]string{"status": "reloaded", "family": req.Family})
}

// Helpers

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

// refresh pulls the written family back into the mirror so the next read
// sees the change without waiting for a broker round-trip.
func (h *Handler) refresh(ctx context.Context, log aqm.Logger, family catalog.Family) {
	if err := h.store.Load(ctx, family); err != nil {
		log.Error("mirror refresh failed", "family", string(family), "error", err)
	}
}

func (h *Handler) publishChange(ctx context.Context, log aqm.Logger, eventType string, family catalog.Family, entityID uuid.UUID, name string) {
	if h.publisher == nil {
		return
	}

	payload := event.CatalogChangedEvent{
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Family:     string(family),
		EntityID:   entityID.String(),
		EntityName: name,
	}

	raw, _ := json.Marshal(payload)
	if err := h.publisher.Publish(ctx, event.CatalogTopic, raw); err != nil {
		log.Error("cannot publish catalog event", "error", err, "event_type", eventType)
	}
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, name string, log aqm.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, name)
	if idStr == "" {
		log.Debug("missing id parameter", "param", name)
		aqm.RespondError(w, http.StatusBadRequest, "Missing "+name+" parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "param", name, "id", idStr, "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid "+name+" parameter")
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

func (h *Handler) respondValidationErrors(w http.ResponseWriter, errors []catalog.ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "Validation failed",
		"errors": errors,
	})
}
