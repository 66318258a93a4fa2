package api

import (
	"encoding/json"
	"net/http"

	"github.com/smartfit/smartfit-backend/models"
	"github.com/smartfit/smartfit-backend/utils"
)

// AddHistoryRequest is a client-reported activity entry; the server also
// writes entries of its own for key actions.
type AddHistoryRequest struct {
	Action   string         `json:"action" validate:"required"`
	Details  string         `json:"details,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ListHistoryHandler returns the caller's activity trail, newest first.
func (h *Handler) ListHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	entries, err := h.store.GetUserHistory(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch history", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, entries)
}

// AddHistoryHandler appends a client-reported entry to the trail.
func (h *Handler) AddHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req AddHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, nil, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.RespondError(w, nil, "action is required", http.StatusBadRequest)
		return
	}

	entry, err := h.store.AddToHistory(r.Context(), &models.HistoryEntry{
		UserID:   userID,
		Action:   req.Action,
		Details:  req.Details,
		Metadata: req.Metadata,
	})
	if err != nil {
		utils.RespondError(w, nil, "Failed to add history entry", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, entry)
}
