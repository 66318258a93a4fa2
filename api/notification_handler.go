package api

import (
	"net/http"

	"github.com/smartfit/smartfit-backend/utils"
)

// ListNotificationsHandler returns the caller's notifications, newest first.
func (h *Handler) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	notifications, err := h.store.GetUserNotifications(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch notifications", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, notifications)
}

// MarkNotificationReadHandler flips a notification's read flag. Marking an
// absent notification is a no-op that still reports success.
func (h *Handler) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := GetUserIDFromContext(r.Context()); err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.store.MarkNotificationAsRead(r.Context(), r.PathValue("id")); err != nil {
		utils.RespondError(w, nil, "Failed to update notification", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}
