package models

import "time"

// Measurement holds a user's captured body dimensions in cm, one record per
// user with upsert semantics.
type Measurement struct {
	ID         string             `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"userId"`
	Chest      float64            `bson:"chest,omitempty" json:"chest,omitempty"`
	Shoulders  float64            `bson:"shoulders,omitempty" json:"shoulders,omitempty"`
	Waist      float64            `bson:"waist,omitempty" json:"waist,omitempty"`
	Height     float64            `bson:"height,omitempty" json:"height,omitempty"`
	Hips       float64            `bson:"hips,omitempty" json:"hips,omitempty"`
	Confidence map[string]float64 `bson:"confidence,omitempty" json:"confidence,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Dimensions returns the captured dimensions as a name->value map, skipping
// dimensions that were never measured.
func (m *Measurement) Dimensions() map[string]float64 {
	dims := make(map[string]float64)
	if m.Chest > 0 {
		dims["chest"] = m.Chest
	}
	if m.Shoulders > 0 {
		dims["shoulders"] = m.Shoulders
	}
	if m.Waist > 0 {
		dims["waist"] = m.Waist
	}
	if m.Height > 0 {
		dims["height"] = m.Height
	}
	if m.Hips > 0 {
		dims["hips"] = m.Hips
	}
	return dims
}
