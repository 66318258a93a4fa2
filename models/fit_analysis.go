package models

import "time"

// AnalysisMeasurements snapshots both measurement sets that entered a
// prediction, so the stored analysis stays meaningful if either side changes.
type AnalysisMeasurements struct {
	User    map[string]float64 `bson:"user" json:"user"`
	Product map[string]float64 `bson:"product" json:"product"`
}

// AnalysisDetail is the per-dimension breakdown of a fit prediction.
type AnalysisDetail struct {
	Predictions  map[string]string    `bson:"predictions" json:"predictions"`
	Measurements AnalysisMeasurements `bson:"measurements" json:"measurements"`
}

// FitAnalysis is an append-only record of one fit prediction.
type FitAnalysis struct {
	ID              string         `bson:"_id,omitempty" json:"id"`
	UserID          string         `bson:"user_id" json:"userId"`
	ProductID       string         `bson:"product_id" json:"productId"`
	FitStatus       string         `bson:"fit_status" json:"fitStatus"`
	Analysis        AnalysisDetail `bson:"analysis" json:"analysis"`
	Recommendations string         `bson:"recommendations,omitempty" json:"recommendations,omitempty"`
	CreatedAt       time.Time      `bson:"created_at" json:"createdAt"`
}
