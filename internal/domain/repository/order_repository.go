package repository

import (
	"context"
	"time"

	"gamemarket/internal/domain/entity"
)

// SettlementInstruction carries the precomputed amounts for releasing an
// escrow hold to the seller. The repository applies the whole instruction in
// a single database transaction: order status, escrow record, seller wallet
// credit, ledger entry, listing flip, and both users' loyalty counters.
type SettlementInstruction struct {
	OrderID          string
	ActorID          string
	ExpectedStatuses []string
	Notes            string
}

// RefundInstruction returns an escrow hold to the buyer and cancels the order.
type RefundInstruction struct {
	OrderID          string
	ActorID          string
	ExpectedStatuses []string
	Reason           string
}

type OrderRepository interface {
	// CreateEscrow atomically debits the buyer wallet, writes the order with
	// status escrow, the ledger entry, the escrow hold, and flips the listing
	// to pending. The order ID doubles as the idempotency key: if an order
	// with that ID already exists the stored order is returned with
	// created=false and nothing is written.
	CreateEscrow(ctx context.Context, order *entity.Order) (*entity.Order, bool, error)

	// Settle releases held funds to the seller and marks the order delivered.
	// It fails without side effects when the order is not in one of the
	// expected statuses, which makes repeated confirm calls no-ops.
	Settle(ctx context.Context, instr SettlementInstruction) (*entity.Order, error)

	// Refund returns held funds to the buyer and cancels the order, with the
	// same status guard semantics as Settle.
	Refund(ctx context.Context, instr RefundInstruction) (*entity.Order, error)

	// UpdateGuarded applies mutate to the current order inside a transaction,
	// failing when the stored status is not one of expected. Used for the
	// non-monetary transitions (delivering, awaiting_confirmation, disputed).
	UpdateGuarded(ctx context.Context, orderID string, expected []string, mutate func(*entity.Order) error) (*entity.Order, error)

	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByUserID(ctx context.Context, userID, role, status string, limit, offset int) ([]*entity.Order, int64, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Order, int64, error)
	ListDueForAutoRelease(ctx context.Context, before time.Time, limit int) ([]*entity.Order, error)
	CountByStatus(ctx context.Context) (map[string]int, error)

	GetEscrowHold(ctx context.Context, orderID string) (*entity.EscrowHold, error)

	CreateEvent(ctx context.Context, event *entity.OrderEvent) error
	ListEventsByOrderID(ctx context.Context, orderID string) ([]*entity.OrderEvent, error)
}
