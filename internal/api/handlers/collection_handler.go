package handlers

import (
	"context"
	"net/http"

	"github.com/isdelr/yoga-collections-be/internal/auth"
	"github.com/isdelr/yoga-collections-be/internal/common"
	"github.com/isdelr/yoga-collections-be/internal/models"
	"github.com/isdelr/yoga-collections-be/internal/services"
)

// CollectionHandler handles HTTP requests for collections and their items.
type CollectionHandler struct {
	service      services.CollectionServiceProvider
	requireOwner bool
}

// NewCollectionHandler creates a new CollectionHandler. With requireOwner
// set, every request must carry the identity of the collection owner.
func NewCollectionHandler(service services.CollectionServiceProvider, requireOwner bool) *CollectionHandler {
	return &CollectionHandler{service: service, requireOwner: requireOwner}
}

// CreateCollectionPayload is the body of a create-collection request.
type CreateCollectionPayload struct {
	UserID models.ExternalID `json:"userId"`
	Name   string            `json:"name"`
}

// AddItemPayload is the body of an add-item request.
type AddItemPayload struct {
	PoseID models.ExternalID `json:"poseId"`
}

// List returns the collections of the owner named by the userId query parameter.
func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := models.ExternalID(r.URL.Query().Get("userId"))
	if owner.IsZero() {
		respondError(w, r, common.Validation("userId is required"))
		return
	}
	if err := h.authorize(r.Context(), owner); err != nil {
		respondError(w, r, err)
		return
	}

	collections, err := h.service.ListCollections(r.Context(), owner)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, collections)
}

// Create handles creating a new collection.
func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload CreateCollectionPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, err)
		return
	}
	if payload.UserID.IsZero() {
		respondError(w, r, common.Validation("userId and name are required"))
		return
	}
	if err := h.authorize(r.Context(), payload.UserID); err != nil {
		respondError(w, r, err)
		return
	}

	c, err := h.service.CreateCollection(r.Context(), payload.UserID, payload.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// Get returns a single collection.
func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := collectionID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	c, err := h.service.GetCollection(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.authorize(r.Context(), c.OwnerID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// ListItems returns the items of a collection in display order.
func (h *CollectionHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	id, err := collectionID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.authorizeCollection(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	items, err := h.service.ListItems(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// AddItem handles adding a pose to a collection.
func (h *CollectionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := collectionID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var payload AddItemPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, err)
		return
	}
	if payload.PoseID.IsZero() {
		respondError(w, r, common.Validation("poseId is required"))
		return
	}
	if err := h.authorizeCollection(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	item, err := h.service.AddItem(r.Context(), id, payload.PoseID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *CollectionHandler) authorize(ctx context.Context, owner models.ExternalID) error {
	if !h.requireOwner {
		return nil
	}
	return auth.AuthorizeOwner(ctx, owner)
}

// authorizeCollection checks the caller against the stored owner of the
// collection. An unknown collection is reported before any identity check.
func (h *CollectionHandler) authorizeCollection(ctx context.Context, id int64) error {
	if !h.requireOwner {
		return nil
	}
	c, err := h.service.GetCollection(ctx, id)
	if err != nil {
		return err
	}
	return auth.AuthorizeOwner(ctx, c.OwnerID)
}
