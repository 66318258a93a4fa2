package models

import "time"

// User represents a registered user
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Username  string    `bson:"username" json:"username"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"` // Password is not returned in JSON
	FullName  string    `bson:"full_name" json:"fullName"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
