package handlers

import (
	"net/http"
	"strconv"

	"github.com/isdelr/yoga-collections-be/internal/auth"
	"github.com/isdelr/yoga-collections-be/internal/common"
	"github.com/isdelr/yoga-collections-be/internal/models"
	"github.com/isdelr/yoga-collections-be/internal/services"
)

// EventHandler handles HTTP requests for the activity log.
type EventHandler struct {
	service      services.EventServiceProvider
	requireOwner bool
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider, requireOwner bool) *EventHandler {
	return &EventHandler{service: service, requireOwner: requireOwner}
}

// GetRecent returns the owner's newest events.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	owner := models.ExternalID(r.URL.Query().Get("userId"))
	if owner.IsZero() {
		respondError(w, r, common.Validation("userId is required"))
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			respondError(w, r, common.Validation("limit must be a number"))
			return
		}
		limit = n
	}

	if h.requireOwner {
		if err := auth.AuthorizeOwner(r.Context(), owner); err != nil {
			respondError(w, r, err)
			return
		}
	}

	events, err := h.service.Recent(r.Context(), owner, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}
