package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/yoga-collections-be/internal/models"
)

// PoseCatalog reads poses from the external catalog.
type PoseCatalog interface {
	Random(ctx context.Context) (models.Pose, error)
	Search(ctx context.Context, keyword string) ([]models.Pose, error)
}

// PoseHandler proxies catalog reads.
type PoseHandler struct {
	catalog PoseCatalog
}

// NewPoseHandler creates a new PoseHandler.
func NewPoseHandler(catalog PoseCatalog) *PoseHandler {
	return &PoseHandler{catalog: catalog}
}

// Random returns one pose picked by the catalog.
func (h *PoseHandler) Random(w http.ResponseWriter, r *http.Request) {
	pose, err := h.catalog.Random(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, pose)
}

// Search returns the poses matching the {keyword} URL parameter.
func (h *PoseHandler) Search(w http.ResponseWriter, r *http.Request) {
	poses, err := h.catalog.Search(r.Context(), chi.URLParam(r, "keyword"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, poses)
}
