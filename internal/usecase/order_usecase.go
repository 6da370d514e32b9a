package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gamemarket/internal/domain/entity"
	"gamemarket/internal/domain/repository"
	"gamemarket/internal/infrastructure/ratelimit"
	"gamemarket/pkg/errors"
	"gamemarket/pkg/logger"
)

type OrderUseCase struct {
	orderRepo        repository.OrderRepository
	listingRepo      repository.GameAccountRepository
	userRepo         repository.UserRepository
	notifier         Notifier
	limiter          *ratelimit.RateLimiter
	autoReleaseAfter time.Duration
}

func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	listingRepo repository.GameAccountRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	limiter *ratelimit.RateLimiter,
	autoReleaseAfter time.Duration,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:        orderRepo,
		listingRepo:      listingRepo,
		userRepo:         userRepo,
		notifier:         notifier,
		limiter:          limiter,
		autoReleaseAfter: autoReleaseAfter,
	}
}

type CreateOrderInput struct {
	AccountID      string
	IdempotencyKey string

	// Price overrides the listed price for accepted offers. Zero means the
	// listing price.
	Price float64
}

// Create places a purchase: funds move from the buyer's wallet into escrow
// and the listing is locked, all in one repository transaction. The
// idempotency key becomes the order ID, so a retried request returns the
// original order instead of charging twice.
func (uc *OrderUseCase) Create(ctx context.Context, buyerID string, input CreateOrderInput) (*entity.Order, error) {
	if allowed, wait := uc.limiter.Allow(buyerID, "create_order"); !allowed {
		return nil, errors.TooManyRequests(fmt.Sprintf("Too many purchase attempts, retry in %s", wait.Round(time.Second)))
	}

	buyer, err := uc.userRepo.GetByID(ctx, buyerID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}
	if !buyer.Active() {
		return nil, errors.Forbidden("Account is suspended", nil)
	}

	listing, err := uc.listingRepo.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID == buyerID {
		return nil, errors.BadRequest("You cannot buy your own listing", nil)
	}
	if listing.Status != entity.ListingStatusActive {
		return nil, errors.Conflict("Listing is no longer available")
	}

	orderID := input.IdempotencyKey
	if orderID == "" {
		orderID = uuid.New().String()
	}

	amount := listing.Price
	if input.Price > 0 {
		amount = input.Price
	}

	order := &entity.Order{
		ID:        orderID,
		BuyerID:   buyerID,
		SellerID:  listing.SellerID,
		AccountID: listing.ID,
		Amount:    amount,
	}

	result, created, err := uc.orderRepo.CreateEscrow(ctx, order)
	if err != nil {
		return nil, err
	}

	if created {
		uc.recordEvent(ctx, result.ID, result.Status, buyerID, "Order placed, funds held in escrow")
		uc.notifier.NotifyUser(result.SellerID, "order_update", result)
	}

	return result, nil
}

// StartDelivery moves the order to delivering. Seller only.
func (uc *OrderUseCase) StartDelivery(ctx context.Context, sellerID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.UpdateGuarded(ctx, orderID, []string{entity.OrderStatusEscrow}, func(o *entity.Order) error {
		if o.SellerID != sellerID {
			return errors.Forbidden("Only the seller can deliver this order", nil)
		}
		o.Status = entity.OrderStatusDelivering
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.recordEvent(ctx, orderID, order.Status, sellerID, "Seller started delivery")
	uc.notifier.NotifyUser(order.BuyerID, "order_update", order)
	return order, nil
}

// DeliverAccountDetails attaches the credentials payload, starts the
// confirmation window, and moves the order to awaiting_confirmation.
func (uc *OrderUseCase) DeliverAccountDetails(ctx context.Context, sellerID, orderID string, details map[string]interface{}) (*entity.Order, error) {
	if len(details) == 0 {
		return nil, errors.BadRequest("Account details are required", nil)
	}

	expected := []string{entity.OrderStatusEscrow, entity.OrderStatusDelivering}
	order, err := uc.orderRepo.UpdateGuarded(ctx, orderID, expected, func(o *entity.Order) error {
		if o.SellerID != sellerID {
			return errors.Forbidden("Only the seller can deliver this order", nil)
		}
		now := time.Now()
		releaseAt := now.Add(uc.autoReleaseAfter)
		o.Status = entity.OrderStatusAwaitingConfirmation
		o.AccountDetails = details
		o.DeliveredAt = &now
		o.AutoReleaseAt = &releaseAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.recordEvent(ctx, orderID, order.Status, sellerID, "Account details delivered")
	uc.notifier.NotifyUser(order.BuyerID, "order_update", order)
	return order, nil
}

// ConfirmDelivery settles the escrow: seller gets the proceeds minus the 5%
// commission and both parties' loyalty counters advance. Buyer only. A repeat
// call finds the order already delivered and fails without side effects.
func (uc *OrderUseCase) ConfirmDelivery(ctx context.Context, buyerID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, errors.Forbidden("Only the buyer can confirm this order", nil)
	}

	settled, err := uc.orderRepo.Settle(ctx, repository.SettlementInstruction{
		OrderID:          orderID,
		ActorID:          buyerID,
		ExpectedStatuses: []string{entity.OrderStatusAwaitingConfirmation},
		Notes:            "Buyer confirmed delivery",
	})
	if err != nil {
		return nil, err
	}

	uc.recordEvent(ctx, orderID, settled.Status, buyerID, "Buyer confirmed delivery, escrow released")
	uc.notifier.NotifyUser(settled.SellerID, "order_update", settled)
	uc.notifier.NotifyUser(settled.SellerID, "wallet_update", map[string]interface{}{
		"order_id": settled.ID,
		"amount":   settled.SellerProceeds,
	})
	return settled, nil
}

// Cancel refunds the buyer. Buyers may cancel while the seller has not
// delivered yet; sellers may back out at the same stages.
func (uc *OrderUseCase) Cancel(ctx context.Context, actorID, orderID, reason string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != actorID && order.SellerID != actorID {
		return nil, errors.Forbidden("You are not a party to this order", nil)
	}

	cancelled, err := uc.orderRepo.Refund(ctx, repository.RefundInstruction{
		OrderID:          orderID,
		ActorID:          actorID,
		ExpectedStatuses: []string{entity.OrderStatusEscrow, entity.OrderStatusDelivering},
		Reason:           reason,
	})
	if err != nil {
		return nil, err
	}

	uc.recordEvent(ctx, orderID, cancelled.Status, actorID, "Order cancelled: "+reason)
	uc.notifier.NotifyUser(cancelled.BuyerID, "order_update", cancelled)
	uc.notifier.NotifyUser(cancelled.SellerID, "order_update", cancelled)
	return cancelled, nil
}

// Dispute freezes an awaiting_confirmation order for admin review. Buyer only.
func (uc *OrderUseCase) Dispute(ctx context.Context, buyerID, orderID, reason string) (*entity.Order, error) {
	if reason == "" {
		return nil, errors.BadRequest("A dispute reason is required", nil)
	}

	expected := []string{entity.OrderStatusAwaitingConfirmation}
	order, err := uc.orderRepo.UpdateGuarded(ctx, orderID, expected, func(o *entity.Order) error {
		if o.BuyerID != buyerID {
			return errors.Forbidden("Only the buyer can dispute this order", nil)
		}
		now := time.Now()
		o.Status = entity.OrderStatusDisputed
		o.DisputeReason = reason
		o.DisputedAt = &now
		// A disputed order never auto-releases.
		o.AutoReleaseAt = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.recordEvent(ctx, orderID, order.Status, buyerID, "Buyer opened a dispute: "+reason)
	uc.notifier.NotifyUser(order.SellerID, "order_update", order)
	return order, nil
}

// ResolveDispute settles for the seller or refunds the buyer. Admin only;
// the handler layer enforces the role.
func (uc *OrderUseCase) ResolveDispute(ctx context.Context, adminID, orderID string, releaseToSeller bool, notes string) (*entity.Order, error) {
	expected := []string{entity.OrderStatusDisputed}

	var resolved *entity.Order
	var err error
	if releaseToSeller {
		resolved, err = uc.orderRepo.Settle(ctx, repository.SettlementInstruction{
			OrderID:          orderID,
			ActorID:          adminID,
			ExpectedStatuses: expected,
			Notes:            notes,
		})
	} else {
		resolved, err = uc.orderRepo.Refund(ctx, repository.RefundInstruction{
			OrderID:          orderID,
			ActorID:          adminID,
			ExpectedStatuses: expected,
			Reason:           notes,
		})
	}
	if err != nil {
		return nil, err
	}

	uc.recordEvent(ctx, orderID, resolved.Status, adminID, "Dispute resolved: "+notes)
	uc.notifier.NotifyUser(resolved.BuyerID, "order_update", resolved)
	uc.notifier.NotifyUser(resolved.SellerID, "order_update", resolved)
	return resolved, nil
}

// GetByID returns the order for one of its parties. The credentials payload
// is only attached for the buyer once the order has reached
// awaiting_confirmation.
func (uc *OrderUseCase) GetByID(ctx context.Context, actorID, orderID string) (*entity.Order, map[string]interface{}, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.BuyerID != actorID && order.SellerID != actorID {
		return nil, nil, errors.Forbidden("You are not a party to this order", nil)
	}

	var details map[string]interface{}
	if actorID == order.BuyerID {
		switch order.Status {
		case entity.OrderStatusAwaitingConfirmation, entity.OrderStatusDelivered, entity.OrderStatusDisputed:
			details = order.AccountDetails
		}
	} else if actorID == order.SellerID {
		details = order.AccountDetails
	}

	return order, details, nil
}

func (uc *OrderUseCase) ListMine(ctx context.Context, userID, role, status string, limit, offset int) ([]*entity.Order, int64, error) {
	if role != "buyer" && role != "seller" {
		role = "buyer"
	}
	return uc.orderRepo.ListByUserID(ctx, userID, role, status, limit, offset)
}

func (uc *OrderUseCase) ListEvents(ctx context.Context, actorID, orderID string) ([]*entity.OrderEvent, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != actorID && order.SellerID != actorID {
		return nil, errors.Forbidden("You are not a party to this order", nil)
	}
	return uc.orderRepo.ListEventsByOrderID(ctx, orderID)
}

func (uc *OrderUseCase) recordEvent(ctx context.Context, orderID, status, actorID, notes string) {
	err := uc.orderRepo.CreateEvent(ctx, &entity.OrderEvent{
		OrderID:   orderID,
		Status:    status,
		Notes:     notes,
		CreatedBy: actorID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		logger.LogOrderError(orderID, "record_event", err)
	}
}

// StartAutoReleaseJob settles orders whose confirmation window has lapsed.
// Runs until the context is cancelled.
func (uc *OrderUseCase) StartAutoReleaseJob(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				uc.releaseDueOrders(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (uc *OrderUseCase) releaseDueOrders(ctx context.Context) {
	orders, err := uc.orderRepo.ListDueForAutoRelease(ctx, time.Now(), 50)
	if err != nil {
		logger.Error("Auto-release scan failed: %v", err)
		return
	}

	for _, order := range orders {
		settled, err := uc.orderRepo.Settle(ctx, repository.SettlementInstruction{
			OrderID:          order.ID,
			ActorID:          "system",
			ExpectedStatuses: []string{entity.OrderStatusAwaitingConfirmation},
			Notes:            "Auto-released after confirmation window lapsed",
		})
		if err != nil {
			// A dispute or confirm may have raced the scan; skip.
			logger.LogOrderError(order.ID, "auto_release", err)
			continue
		}

		uc.recordEvent(ctx, order.ID, settled.Status, "system", "Escrow auto-released")
		uc.notifier.NotifyUser(settled.SellerID, "order_update", settled)
		logger.Info("Auto-released order %s", order.ID)
	}
}
