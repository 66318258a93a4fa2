package models

import "time"

// Recommendation is a suggested product for a user's feed.
type Recommendation struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	UserID      string    `bson:"user_id" json:"userId"`
	ProductName string    `bson:"product_name" json:"productName"`
	Brand       string    `bson:"brand,omitempty" json:"brand,omitempty"`
	Price       string    `bson:"price,omitempty" json:"price,omitempty"`
	ImageURL    string    `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	FitScore    float64   `bson:"fit_score" json:"fitScore"`
	Reason      string    `bson:"reason" json:"reason"`
	Category    string    `bson:"category,omitempty" json:"category,omitempty"`
	Size        string    `bson:"size,omitempty" json:"size,omitempty"`
	ExternalURL string    `bson:"external_url,omitempty" json:"externalUrl,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}
