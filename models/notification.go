package models

import "time"

// Notification is an in-app message for a user. Only IsRead ever changes
// after creation.
type Notification struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Title     string    `bson:"title" json:"title"`
	Message   string    `bson:"message" json:"message"`
	Type      string    `bson:"type" json:"type"`
	IsRead    bool      `bson:"is_read" json:"isRead"`
	ActionURL string    `bson:"action_url,omitempty" json:"actionUrl,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
