package models

import (
	"time"
)

type User struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email" validate:"required,email"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Caller is the authenticated identity resolved by the auth middleware.
// ClientID is the optional tenant scope; empty means no client scoping.
type Caller struct {
	UserID   string
	ClientID string
}
