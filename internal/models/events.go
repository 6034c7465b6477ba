package models

import (
	"time"
)

const PatternProductTransferred = "product.transferred"

// ProductEvent is the envelope published to the product events topic.
type ProductEvent struct {
	Pattern string                  `json:"pattern"`
	Data    ProductTransferredEvent `json:"data"`
}

// ProductTransferredEvent carries everything the notification worker needs
// so it never has to read back from the database.
type ProductTransferredEvent struct {
	ProductID      string    `json:"product_id"`
	ProductName    string    `json:"product_name"`
	SiteID         string    `json:"site_id,omitempty"`
	ActorID        string    `json:"actor_id"`
	ActorName      string    `json:"actor_name"`
	RecipientID    string    `json:"recipient_id"`
	RecipientName  string    `json:"recipient_name"`
	RecipientEmail string    `json:"recipient_email"`
	TransferredAt  time.Time `json:"transferred_at"`
}
