package models

import "time"

// Product represents a clothing or footwear item submitted for analysis.
// Products are immutable after creation.
type Product struct {
	ID           string             `bson:"_id,omitempty" json:"id"`
	UserID       string             `bson:"user_id" json:"userId"`
	Name         string             `bson:"name" json:"name"`
	Brand        string             `bson:"brand,omitempty" json:"brand,omitempty"`
	ImageURL     string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Size         string             `bson:"size,omitempty" json:"size,omitempty"`
	Measurements map[string]float64 `bson:"measurements,omitempty" json:"measurements,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}
