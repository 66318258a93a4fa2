package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/smartfit/smartfit-backend/fit"
	"github.com/smartfit/smartfit-backend/models"
	"github.com/smartfit/smartfit-backend/storage"
	"github.com/smartfit/smartfit-backend/utils"
)

// FitPredictRequest names the product to compare against the caller's
// stored measurements.
type FitPredictRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// FitPredictHandler runs a fit prediction and records the result.
func (h *Handler) FitPredictHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Fit Predict API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req FitPredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "productId is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Fit request: UserID=%s, ProductID=%s", userID, req.ProductID))

	product, err := h.store.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.RespondError(w, &logMessageBuilder, "Product not found", http.StatusBadRequest)
		} else {
			utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		}
		return
	}

	measurement, err := h.store.GetMeasurement(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.RespondError(w, &logMessageBuilder, "No measurements found. Capture your measurements first", http.StatusBadRequest)
		} else {
			utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		}
		return
	}

	userDims := measurement.Dimensions()
	productDims := product.Measurements
	if productDims == nil {
		productDims = map[string]float64{}
	}

	result := fit.Predict(userDims, productDims)
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Prediction complete: %s", result.FitStatus))

	analysis, err := h.store.CreateFitAnalysis(ctx, &models.FitAnalysis{
		UserID:    userID,
		ProductID: product.ID,
		FitStatus: result.FitStatus,
		Analysis: models.AnalysisDetail{
			Predictions: result.Predictions,
			Measurements: models.AnalysisMeasurements{
				User:    userDims,
				Product: productDims,
			},
		},
		Recommendations: result.Recommendations,
	})
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to save fit analysis: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to save fit analysis", http.StatusInternalServerError)
		return
	}

	h.recordHistory(ctx, userID, "fit_predicted", product.Name, map[string]any{
		"productId": product.ID,
		"fitStatus": result.FitStatus,
	})

	if _, err := h.store.CreateNotification(ctx, &models.Notification{
		UserID:    userID,
		Title:     "Fit analysis ready",
		Message:   fmt.Sprintf("Your fit prediction for %s is ready: %s", product.Name, result.FitStatus),
		Type:      "fit_analysis",
		ActionURL: "/fit-analyses",
	}); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to create notification: %v", err))
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":              analysis.ID,
		"fitStatus":       analysis.FitStatus,
		"analysis":        analysis.Analysis,
		"recommendations": analysis.Recommendations,
	})
}

// ListFitAnalysesHandler returns the caller's analyses, newest first.
func (h *Handler) ListFitAnalysesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	analyses, err := h.store.GetUserFitAnalyses(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch fit analyses", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, analyses)
}
