// Package fit classifies how a product's declared measurements match a
// user's body measurements.
package fit

import (
	"math"
	"strings"
)

// Overall fit statuses, ordered best to worst. The overall status starts at
// Perfect and only ever downgrades.
const (
	StatusPerfect    = "perfect"
	StatusAcceptable = "acceptable"
	StatusPoor       = "poor"
)

// Per-dimension prediction labels.
const (
	PredictionPerfect  = "perfect"
	PredictionTight    = "tight"
	PredictionGood     = "good"
	PredictionTooSmall = "too_small"
	PredictionTooLarge = "too_large"
)

// Result is the outcome of comparing one measurement set against one product.
type Result struct {
	FitStatus       string
	Predictions     map[string]string
	Recommendations string
}

// Predict compares the user's dimensions against the product's declared
// measurements (both in cm) and classifies each shared dimension plus the
// overall fit. Dimensions present on only one side are skipped. A product
// with no declared measurements yields an empty prediction map and an overall
// status of perfect.
//
// Predict is pure: it never touches storage, and persisting the result is the
// caller's job.
func Predict(user, product map[string]float64) Result {
	result := Result{
		FitStatus:   StatusPerfect,
		Predictions: make(map[string]string),
	}
	var advisories []string

	if userChest, ok := user["chest"]; ok {
		if productChest, ok := product["chest"]; ok {
			diff := math.Abs(userChest - productChest)
			switch {
			case diff > 4:
				if userChest > productChest {
					result.Predictions["chest"] = PredictionTooSmall
					advisories = append(advisories, "Chest is too tight, consider sizing up")
				} else {
					result.Predictions["chest"] = PredictionTooLarge
					advisories = append(advisories, "Chest is too loose, consider sizing down")
				}
				result.FitStatus = StatusPoor
			case diff > 2:
				result.Predictions["chest"] = PredictionTight
				if result.FitStatus == StatusPerfect {
					result.FitStatus = StatusAcceptable
				}
				advisories = append(advisories, "Chest will be snug but wearable")
			default:
				result.Predictions["chest"] = PredictionPerfect
			}
		}
	}

	if userShoulders, ok := user["shoulders"]; ok {
		if productShoulders, ok := product["shoulders"]; ok {
			diff := math.Abs(userShoulders - productShoulders)
			if diff > 3 {
				if userShoulders > productShoulders {
					result.Predictions["shoulders"] = PredictionTooSmall
					advisories = append(advisories, "Shoulders are too narrow for your frame")
				} else {
					result.Predictions["shoulders"] = PredictionTooLarge
					advisories = append(advisories, "Shoulders are too wide for your frame")
				}
				result.FitStatus = StatusPoor
			} else {
				result.Predictions["shoulders"] = PredictionGood
			}
		}
	}

	result.Recommendations = strings.Join(advisories, "; ")
	return result
}
