package models

import (
	"time"
)

const (
	ProductStatusActive  = "active"
	ProductStatusDeleted = "deleted"
)

// Product is keyed by a caller-supplied UUID. The id is immutable after
// creation; name and description are always non-blank.
type Product struct {
	ID          string     `bson:"_id" json:"id"`
	Name        string     `bson:"name" json:"name" validate:"required"`
	Description string     `bson:"description" json:"description" validate:"required"`
	Status      string     `bson:"status" json:"status"`
	CreatedBy   string     `bson:"created_by" json:"created_by"`
	SiteID      string     `bson:"site_id,omitempty" json:"site_id,omitempty"`
	ClientID    string     `bson:"client_id,omitempty" json:"client_id,omitempty"`
	DueDate     *time.Time `bson:"due_date,omitempty" json:"due_date,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// ProductPage is the listing response shape: total is the full matching
// count, entities is at most one page, page echoes the requested number.
type ProductPage struct {
	Total    int64     `json:"total"`
	Entities []Product `json:"entities"`
	Page     int       `json:"page"`
}

// TransferResult mirrors the transfer endpoint contract. A missing target
// user is a soft failure: Status is false and no other field is set.
type TransferResult struct {
	Product *Product `json:"product,omitempty"`
	Status  bool     `json:"status"`
	User    string   `json:"user,omitempty"`
}
