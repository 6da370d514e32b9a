package entity

import (
	"time"
)

const (
	OrderStatusEscrow               = "escrow"
	OrderStatusDelivering           = "delivering"
	OrderStatusAwaitingConfirmation = "awaiting_confirmation"
	OrderStatusDelivered            = "delivered"
	OrderStatusCancelled            = "cancelled"
	OrderStatusDisputed             = "disputed"
)

const (
	EscrowStatusHeld     = "held"
	EscrowStatusReleased = "released"
	EscrowStatusRefunded = "refunded"
)

// CommissionRate is the platform cut retained on settled sales and withdrawals.
const CommissionRate = 0.05

type Order struct {
	ID        string  `json:"id" firestore:"id"`
	BuyerID   string  `json:"buyer_id" firestore:"buyerId"`
	SellerID  string  `json:"seller_id" firestore:"sellerId"`
	AccountID string  `json:"account_id" firestore:"accountId"`
	Amount    float64 `json:"amount" firestore:"amount"`
	Status    string  `json:"status" firestore:"status"`

	EscrowAmount   float64 `json:"escrow_amount" firestore:"escrowAmount"`
	EscrowStatus   string  `json:"escrow_status" firestore:"escrowStatus"`
	Commission     float64 `json:"commission,omitempty" firestore:"commission,omitempty"`
	SellerProceeds float64 `json:"seller_proceeds,omitempty" firestore:"sellerProceeds,omitempty"`

	// Credentials payload attached by the seller mid-flow. Hidden from the
	// buyer until the order reaches awaiting_confirmation.
	AccountDetails map[string]interface{} `json:"-" firestore:"accountDetails,omitempty"`

	// Auto-release deadline set when credentials are delivered.
	AutoReleaseAt *time.Time `json:"auto_release_at,omitempty" firestore:"autoReleaseAt,omitempty"`

	DisputeReason      string `json:"dispute_reason,omitempty" firestore:"disputeReason,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty" firestore:"cancellationReason,omitempty"`

	CreatedAt    time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time  `json:"updated_at" firestore:"updatedAt"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty" firestore:"deliveredAt,omitempty"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty" firestore:"confirmedAt,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty" firestore:"cancelledAt,omitempty"`
	DisputedAt   *time.Time `json:"disputed_at,omitempty" firestore:"disputedAt,omitempty"`
}

// orderTransitions is the authoritative status graph. Any transition not
// listed here is rejected server-side.
var orderTransitions = map[string][]string{
	OrderStatusEscrow:               {OrderStatusDelivering, OrderStatusAwaitingConfirmation, OrderStatusCancelled},
	OrderStatusDelivering:           {OrderStatusAwaitingConfirmation, OrderStatusCancelled},
	OrderStatusAwaitingConfirmation: {OrderStatusDelivered, OrderStatusDisputed},
	OrderStatusDisputed:             {OrderStatusDelivered, OrderStatusCancelled},
}

// CanTransition reports whether an order may move from its current status to next.
func (o *Order) CanTransition(next string) bool {
	for _, allowed := range orderTransitions[o.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SellerPayout returns the proceeds and commission for a settled order,
// rounded to the nearest piastre.
func SellerPayout(amount float64) (proceeds, commission float64) {
	commission = roundPiastre(amount * CommissionRate)
	proceeds = roundPiastre(amount - commission)
	return proceeds, commission
}

func roundPiastre(v float64) float64 {
	if v < 0 {
		return -roundPiastre(-v)
	}
	return float64(int64(v*100+0.5)) / 100
}

// OrderEvent is an audit record written on every status transition.
type OrderEvent struct {
	ID        string    `json:"id" firestore:"id"`
	OrderID   string    `json:"order_id" firestore:"orderId"`
	Status    string    `json:"status" firestore:"status"`
	Notes     string    `json:"notes,omitempty" firestore:"notes,omitempty"`
	CreatedBy string    `json:"created_by" firestore:"createdBy"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// EscrowHold tracks funds held by the platform between purchase and settlement.
type EscrowHold struct {
	ID        string    `json:"id" firestore:"id"`
	OrderID   string    `json:"order_id" firestore:"orderId"`
	BuyerID   string    `json:"buyer_id" firestore:"buyerId"`
	SellerID  string    `json:"seller_id" firestore:"sellerId"`
	Amount    float64   `json:"amount" firestore:"amount"`
	Status    string    `json:"status" firestore:"status"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
