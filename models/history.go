package models

import "time"

// HistoryEntry is one row of a user's append-only activity trail.
type HistoryEntry struct {
	ID        string         `bson:"_id,omitempty" json:"id"`
	UserID    string         `bson:"user_id" json:"userId"`
	Action    string         `bson:"action" json:"action"`
	Details   string         `bson:"details,omitempty" json:"details,omitempty"`
	Metadata  map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time      `bson:"created_at" json:"createdAt"`
}
