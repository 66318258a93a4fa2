package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/smartfit/smartfit-backend/utils"
)

// AddFavoriteRequest names the product to save.
type AddFavoriteRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// AddFavoriteHandler saves a product to the caller's favorites. Favoriting
// the same product twice returns the existing link.
func (h *Handler) AddFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Add Favorite API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req AddFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "productId is required", http.StatusBadRequest)
		return
	}

	favorite, err := h.store.AddToFavorites(r.Context(), userID, req.ProductID)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to add favorite: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to add favorite", http.StatusInternalServerError)
		return
	}

	h.recordHistory(r.Context(), userID, "favorite_added", "", map[string]any{"productId": req.ProductID})

	utils.AddToLogMessage(&logMessageBuilder, "Favorite added")
	utils.RespondJSON(w, http.StatusCreated, favorite)
}

// RemoveFavoriteHandler removes a favorite; removing an absent favorite is a
// no-op that still reports success.
func (h *Handler) RemoveFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	productID := r.PathValue("productId")
	if err := h.store.RemoveFromFavorites(r.Context(), userID, productID); err != nil {
		utils.RespondError(w, nil, "Failed to remove favorite", http.StatusInternalServerError)
		return
	}

	h.recordHistory(r.Context(), userID, "favorite_removed", "", map[string]any{"productId": productID})

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Removed from favorites"})
}

// ListFavoritesHandler returns the caller's favorites joined to their
// products. Favorites whose product no longer resolves are omitted.
func (h *Handler) ListFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	favorites, err := h.store.GetUserFavorites(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch favorites", http.StatusInternalServerError)
		return
	}

	for i := range favorites {
		favorites[i].Product.ImageURL = utils.PresignImageURL(r.Context(), favorites[i].Product.ImageURL)
	}
	utils.RespondJSON(w, http.StatusOK, favorites)
}
