package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/smartfit/smartfit-backend/models"
	"github.com/smartfit/smartfit-backend/utils"
)

// starterRecommendations is the static sample feed a fresh account is seeded
// with. Real recommendation logic would replace this.
var starterRecommendations = []models.Recommendation{
	{
		ProductName: "Classic Oxford Shirt",
		Brand:       "Arrow",
		Price:       "1499",
		FitScore:    92,
		Reason:      "Matches your chest and shoulder measurements closely",
		Category:    "shirts",
		Size:        "M",
	},
	{
		ProductName: "Slim Fit Chinos",
		Brand:       "Levi's",
		Price:       "2199",
		FitScore:    88,
		Reason:      "Waist measurement falls in this cut's comfort range",
		Category:    "trousers",
		Size:        "32",
	},
	{
		ProductName: "Lightweight Running Jacket",
		Brand:       "Decathlon",
		Price:       "1799",
		FitScore:    84,
		Reason:      "Relaxed shoulders suit your frame for layering",
		Category:    "jackets",
		Size:        "L",
	},
	{
		ProductName: "Everyday Crew T-Shirt",
		Brand:       "H&M",
		Price:       "599",
		FitScore:    90,
		Reason:      "Regular fit lines up with your chest measurement",
		Category:    "t-shirts",
		Size:        "M",
	},
}

// ListRecommendationsHandler returns the caller's recommendation feed.
func (h *Handler) ListRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	recs, err := h.store.GetUserRecommendations(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch recommendations", http.StatusInternalServerError)
		return
	}

	for i := range recs {
		recs[i].ImageURL = utils.PresignImageURL(r.Context(), recs[i].ImageURL)
	}
	utils.RespondJSON(w, http.StatusOK, recs)
}

// SeedRecommendationsHandler loads the static starter feed for the caller.
// A feed that already has entries is returned unchanged.
func (h *Handler) SeedRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Seed Recommendations API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	existing, err := h.store.GetUserRecommendations(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch recommendations", http.StatusInternalServerError)
		return
	}
	if len(existing) > 0 {
		utils.AddToLogMessage(&logMessageBuilder, "Feed already seeded")
		utils.RespondJSON(w, http.StatusOK, existing)
		return
	}

	seeded := []models.Recommendation{}
	for _, sample := range starterRecommendations {
		rec := sample
		rec.UserID = userID
		created, err := h.store.CreateRecommendation(r.Context(), &rec)
		if err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to seed recommendation: %v", err))
			utils.RespondError(w, &logMessageBuilder, "Failed to seed recommendations", http.StatusInternalServerError)
			return
		}
		seeded = append(seeded, *created)
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Seeded %d recommendations", len(seeded)))
	utils.RespondJSON(w, http.StatusCreated, seeded)
}
