package models

import "time"

// Favorite links a user to a saved product. (UserID, ProductID) pairs are unique.
type Favorite struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	ProductID string    `bson:"product_id" json:"productId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// FavoriteWithProduct is a favorite joined to its product for list responses.
type FavoriteWithProduct struct {
	Favorite `bson:",inline"`
	Product  Product `bson:"product" json:"product"`
}
