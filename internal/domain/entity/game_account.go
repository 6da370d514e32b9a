package entity

import (
	"time"
)

const (
	ListingStatusActive  = "active"
	ListingStatusPending = "pending"
	ListingStatusSold    = "sold"
	ListingStatusRemoved = "removed"
)

type ListingImage struct {
	ID           string `json:"id" firestore:"id"`
	URL          string `json:"url" firestore:"url"`
	DisplayOrder int    `json:"display_order" firestore:"displayOrder"`
}

// GameAccount is a marketplace listing for a single game account.
type GameAccount struct {
	ID          string                 `json:"id" firestore:"id"`
	SellerID    string                 `json:"seller_id" firestore:"sellerId"`
	Game        string                 `json:"game" firestore:"game"`
	Title       string                 `json:"title" firestore:"title"`
	Description string                 `json:"description" firestore:"description"`
	Price       float64                `json:"price" firestore:"price"`
	Images      []ListingImage         `json:"images" firestore:"images"`
	Attributes  map[string]interface{} `json:"attributes" firestore:"attributes"` // game-specific free-form fields
	Status      string                 `json:"status" firestore:"status"`
	Views       int                    `json:"views" firestore:"views"`

	CreatedAt time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time  `json:"updated_at" firestore:"updatedAt"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" firestore:"deletedAt,omitempty"`
}
