package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/smartfit/smartfit-backend/storage"
	"github.com/smartfit/smartfit-backend/utils"
)

// Handler holds the dependencies shared by every endpoint. The storage
// backend is injected once at startup, so handlers never know which one is
// active.
type Handler struct {
	store    storage.Store
	validate *validator.Validate
}

func NewHandler(store storage.Store) *Handler {
	return &Handler{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes wires every endpoint onto the mux. All routes except
// signup, login and health require a bearer token.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/signup", h.SignupHandler)
	mux.HandleFunc("POST /api/auth/login", h.LoginHandler)
	mux.HandleFunc("GET /api/auth/me", h.requireAuth(h.MeHandler))

	mux.HandleFunc("GET /api/measurements", h.requireAuth(h.GetMeasurementHandler))
	mux.HandleFunc("POST /api/measurements", h.requireAuth(h.SaveMeasurementHandler))

	mux.HandleFunc("POST /api/products", h.requireAuth(h.CreateProductHandler))
	mux.HandleFunc("POST /api/products/import", h.requireAuth(h.ImportProductHandler))
	mux.HandleFunc("GET /api/products", h.requireAuth(h.ListProductsHandler))
	mux.HandleFunc("GET /api/products/{id}", h.requireAuth(h.GetProductHandler))

	mux.HandleFunc("POST /api/fit-predict", h.requireAuth(h.FitPredictHandler))
	mux.HandleFunc("GET /api/fit-analyses", h.requireAuth(h.ListFitAnalysesHandler))

	mux.HandleFunc("POST /api/favorites", h.requireAuth(h.AddFavoriteHandler))
	mux.HandleFunc("DELETE /api/favorites/{productId}", h.requireAuth(h.RemoveFavoriteHandler))
	mux.HandleFunc("GET /api/favorites", h.requireAuth(h.ListFavoritesHandler))

	mux.HandleFunc("GET /api/recommendations", h.requireAuth(h.ListRecommendationsHandler))
	mux.HandleFunc("POST /api/recommendations/seed", h.requireAuth(h.SeedRecommendationsHandler))

	mux.HandleFunc("GET /api/history", h.requireAuth(h.ListHistoryHandler))
	mux.HandleFunc("POST /api/history", h.requireAuth(h.AddHistoryHandler))

	mux.HandleFunc("GET /api/notifications", h.requireAuth(h.ListNotificationsHandler))
	mux.HandleFunc("PUT /api/notifications/{id}/read", h.requireAuth(h.MarkNotificationReadHandler))

	mux.HandleFunc("GET /api/health", h.HealthHandler)
}

// HealthHandler reports liveness and which storage backend is active.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"storage": h.store.Kind(),
	})
}
