package entity

import "time"

type Review struct {
	ID         string    `json:"id" firestore:"id"`
	OrderID    string    `json:"order_id" firestore:"orderId"`
	ReviewerID string    `json:"reviewer_id" firestore:"reviewerId"`
	SellerID   string    `json:"seller_id" firestore:"sellerId"`
	Rating     int       `json:"rating" firestore:"rating"` // 1-5
	Comment    string    `json:"comment,omitempty" firestore:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}
