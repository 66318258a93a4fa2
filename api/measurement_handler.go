package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/smartfit/smartfit-backend/models"
	"github.com/smartfit/smartfit-backend/storage"
	"github.com/smartfit/smartfit-backend/utils"
)

// MeasurementRequest carries captured body dimensions in cm. Every dimension
// is optional; zero means not captured.
type MeasurementRequest struct {
	Chest      float64            `json:"chest" validate:"omitempty,gt=0"`
	Shoulders  float64            `json:"shoulders" validate:"omitempty,gt=0"`
	Waist      float64            `json:"waist" validate:"omitempty,gt=0"`
	Height     float64            `json:"height" validate:"omitempty,gt=0"`
	Hips       float64            `json:"hips" validate:"omitempty,gt=0"`
	Confidence map[string]float64 `json:"confidence,omitempty" validate:"omitempty,dive,gte=0,lte=1"`
}

// GetMeasurementHandler returns the caller's measurement record, or null if
// none was ever captured.
func (h *Handler) GetMeasurementHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	measurement, err := h.store.GetMeasurement(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.RespondJSON(w, http.StatusOK, nil)
			return
		}
		utils.RespondError(w, nil, "Database error", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, measurement)
}

// SaveMeasurementHandler upserts the caller's single measurement record.
// Last write wins; no measurement history is kept.
func (h *Handler) SaveMeasurementHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Save Measurement API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req MeasurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Validation failed: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Invalid measurement payload", http.StatusBadRequest)
		return
	}

	measurement, err := h.store.UpsertMeasurement(r.Context(), &models.Measurement{
		UserID:     userID,
		Chest:      req.Chest,
		Shoulders:  req.Shoulders,
		Waist:      req.Waist,
		Height:     req.Height,
		Hips:       req.Hips,
		Confidence: req.Confidence,
	})
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to save measurement: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to save measurement", http.StatusInternalServerError)
		return
	}

	h.recordHistory(r.Context(), userID, "measurement_saved", "Body measurements captured", nil)

	utils.AddToLogMessage(&logMessageBuilder, "Measurement saved")
	utils.RespondJSON(w, http.StatusOK, measurement)
}
