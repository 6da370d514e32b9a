package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gamemarket/internal/domain/entity"
	"gamemarket/internal/domain/repository"
	"gamemarket/pkg/errors"
)

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{
		client: client,
	}
}

func (r *firestoreOrderRepository) orderRef(id string) *firestore.DocumentRef {
	return r.client.Collection("orders").Doc(id)
}

func (r *firestoreOrderRepository) escrowRef(orderID string) *firestore.DocumentRef {
	return r.client.Collection("escrows").Doc(orderID)
}

func (r *firestoreOrderRepository) walletRef(userID string) *firestore.DocumentRef {
	return r.client.Collection("wallets").Doc(userID)
}

func statusAllowed(current string, expected []string) bool {
	for _, s := range expected {
		if s == current {
			return true
		}
	}
	return false
}

// CreateEscrow performs the whole purchase in one Firestore transaction:
// buyer debit, order, ledger entry, escrow hold, and listing flip. The order
// document ID is the idempotency key, so retrying a create returns the order
// written by the first attempt without touching the wallet again.
func (r *firestoreOrderRepository) CreateEscrow(ctx context.Context, order *entity.Order) (*entity.Order, bool, error) {
	var result entity.Order
	created := false

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		created = false

		orderDoc, err := tx.Get(r.orderRef(order.ID))
		if err == nil {
			// Idempotent retry: hand back the stored order untouched.
			return orderDoc.DataTo(&result)
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		walletDoc, err := tx.Get(r.walletRef(order.BuyerID))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Wallet", err)
			}
			return err
		}

		var wallet entity.Wallet
		if err := walletDoc.DataTo(&wallet); err != nil {
			return err
		}

		if wallet.Balance < order.Amount {
			return errors.BadRequest("Insufficient wallet balance", nil)
		}

		listingRef := r.client.Collection("gameAccounts").Doc(order.AccountID)
		listingDoc, err := tx.Get(listingRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Listing", err)
			}
			return err
		}

		var listing entity.GameAccount
		if err := listingDoc.DataTo(&listing); err != nil {
			return err
		}

		if listing.Status != entity.ListingStatusActive {
			return errors.Conflict("Listing is no longer available")
		}

		now := time.Now()

		previousBalance := wallet.Balance
		wallet.Balance -= order.Amount
		wallet.LastTxnAt = now
		wallet.UpdatedAt = now
		if err := tx.Set(r.walletRef(order.BuyerID), &wallet); err != nil {
			return err
		}

		ledger := &entity.WalletTransaction{
			ID:              uuid.New().String(),
			WalletID:        wallet.ID,
			UserID:          order.BuyerID,
			Type:            entity.WalletTxnPurchase,
			Amount:          -order.Amount,
			PreviousBalance: previousBalance,
			NewBalance:      wallet.Balance,
			Status:          "completed",
			Reference:       order.ID,
			Description:     fmt.Sprintf("Purchase of listing %s", order.AccountID),
			ProcessedAt:     &now,
			CreatedAt:       now,
		}
		if err := tx.Set(r.client.Collection("walletTransactions").Doc(ledger.ID), ledger); err != nil {
			return err
		}

		order.Status = entity.OrderStatusEscrow
		order.EscrowAmount = order.Amount
		order.EscrowStatus = entity.EscrowStatusHeld
		order.CreatedAt = now
		order.UpdatedAt = now
		if err := tx.Set(r.orderRef(order.ID), order); err != nil {
			return err
		}

		hold := &entity.EscrowHold{
			ID:        order.ID,
			OrderID:   order.ID,
			BuyerID:   order.BuyerID,
			SellerID:  order.SellerID,
			Amount:    order.Amount,
			Status:    entity.EscrowStatusHeld,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Set(r.escrowRef(order.ID), hold); err != nil {
			return err
		}

		if err := tx.Update(listingRef, []firestore.Update{
			{Path: "status", Value: entity.ListingStatusPending},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}

		result = *order
		created = true
		return nil
	})

	if err != nil {
		return nil, false, err
	}

	return &result, created, nil
}

// Settle releases the escrow hold to the seller. Everything — order flip,
// escrow record, seller credit, ledger entry, loyalty counters, listing — is
// committed atomically, and the status guard makes a repeated confirm fail
// before any write.
func (r *firestoreOrderRepository) Settle(ctx context.Context, instr repository.SettlementInstruction) (*entity.Order, error) {
	var result entity.Order

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		orderDoc, err := tx.Get(r.orderRef(instr.OrderID))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Order", err)
			}
			return err
		}

		var order entity.Order
		if err := orderDoc.DataTo(&order); err != nil {
			return err
		}

		if !statusAllowed(order.Status, instr.ExpectedStatuses) {
			return errors.Conflict("Order cannot be settled in its current status")
		}

		escrowDoc, err := tx.Get(r.escrowRef(order.ID))
		if err != nil {
			return err
		}
		var hold entity.EscrowHold
		if err := escrowDoc.DataTo(&hold); err != nil {
			return err
		}
		if hold.Status != entity.EscrowStatusHeld {
			return errors.Conflict("Escrow funds already released or refunded")
		}

		walletDoc, err := tx.Get(r.walletRef(order.SellerID))
		if err != nil {
			return err
		}
		var sellerWallet entity.Wallet
		if err := walletDoc.DataTo(&sellerWallet); err != nil {
			return err
		}

		buyerDoc, err := tx.Get(r.client.Collection("users").Doc(order.BuyerID))
		if err != nil {
			return err
		}
		var buyer entity.User
		if err := buyerDoc.DataTo(&buyer); err != nil {
			return err
		}

		sellerDoc, err := tx.Get(r.client.Collection("users").Doc(order.SellerID))
		if err != nil {
			return err
		}
		var seller entity.User
		if err := sellerDoc.DataTo(&seller); err != nil {
			return err
		}

		listingRef := r.client.Collection("gameAccounts").Doc(order.AccountID)

		now := time.Now()
		proceeds, commission := entity.SellerPayout(order.Amount)

		order.Status = entity.OrderStatusDelivered
		order.EscrowStatus = entity.EscrowStatusReleased
		order.Commission = commission
		order.SellerProceeds = proceeds
		order.ConfirmedAt = &now
		order.UpdatedAt = now
		if err := tx.Set(r.orderRef(order.ID), &order); err != nil {
			return err
		}

		hold.Status = entity.EscrowStatusReleased
		hold.UpdatedAt = now
		if err := tx.Set(r.escrowRef(order.ID), &hold); err != nil {
			return err
		}

		previousBalance := sellerWallet.Balance
		sellerWallet.Balance += proceeds
		sellerWallet.LastTxnAt = now
		sellerWallet.UpdatedAt = now
		if err := tx.Set(r.walletRef(order.SellerID), &sellerWallet); err != nil {
			return err
		}

		ledger := &entity.WalletTransaction{
			ID:              uuid.New().String(),
			WalletID:        sellerWallet.ID,
			UserID:          order.SellerID,
			Type:            entity.WalletTxnEscrowRelease,
			Amount:          proceeds,
			PreviousBalance: previousBalance,
			NewBalance:      sellerWallet.Balance,
			Status:          "completed",
			Reference:       order.ID,
			Description:     fmt.Sprintf("Escrow release for order %s (5%% commission withheld)", order.ID),
			ProcessedAt:     &now,
			CreatedAt:       now,
		}
		if err := tx.Set(r.client.Collection("walletTransactions").Doc(ledger.ID), ledger); err != nil {
			return err
		}

		// Loyalty counters advance incrementally with the settlement; the
		// level is a pure function of the counter, never of order history.
		buyer.TotalTransactionValue += order.Amount
		buyer.Level = entity.LevelForValue(buyer.TotalTransactionValue)
		buyer.Role = entity.PromoteRole(buyer.Role, buyer.Level)
		buyer.UpdatedAt = now
		if err := tx.Set(r.client.Collection("users").Doc(buyer.ID), &buyer); err != nil {
			return err
		}

		seller.TotalTransactionValue += order.Amount
		seller.Level = entity.LevelForValue(seller.TotalTransactionValue)
		seller.Role = entity.PromoteRole(seller.Role, seller.Level)
		seller.UpdatedAt = now
		if err := tx.Set(r.client.Collection("users").Doc(seller.ID), &seller); err != nil {
			return err
		}

		if err := tx.Update(listingRef, []firestore.Update{
			{Path: "status", Value: entity.ListingStatusSold},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}

		result = order
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Refund returns the held funds to the buyer and cancels the order.
func (r *firestoreOrderRepository) Refund(ctx context.Context, instr repository.RefundInstruction) (*entity.Order, error) {
	var result entity.Order

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		orderDoc, err := tx.Get(r.orderRef(instr.OrderID))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Order", err)
			}
			return err
		}

		var order entity.Order
		if err := orderDoc.DataTo(&order); err != nil {
			return err
		}

		if !statusAllowed(order.Status, instr.ExpectedStatuses) {
			return errors.Conflict("Order cannot be cancelled in its current status")
		}

		escrowDoc, err := tx.Get(r.escrowRef(order.ID))
		if err != nil {
			return err
		}
		var hold entity.EscrowHold
		if err := escrowDoc.DataTo(&hold); err != nil {
			return err
		}
		if hold.Status != entity.EscrowStatusHeld {
			return errors.Conflict("Escrow funds already released or refunded")
		}

		walletDoc, err := tx.Get(r.walletRef(order.BuyerID))
		if err != nil {
			return err
		}
		var buyerWallet entity.Wallet
		if err := walletDoc.DataTo(&buyerWallet); err != nil {
			return err
		}

		listingRef := r.client.Collection("gameAccounts").Doc(order.AccountID)

		now := time.Now()

		order.Status = entity.OrderStatusCancelled
		order.EscrowStatus = entity.EscrowStatusRefunded
		order.CancellationReason = instr.Reason
		order.CancelledAt = &now
		order.UpdatedAt = now
		if err := tx.Set(r.orderRef(order.ID), &order); err != nil {
			return err
		}

		hold.Status = entity.EscrowStatusRefunded
		hold.UpdatedAt = now
		if err := tx.Set(r.escrowRef(order.ID), &hold); err != nil {
			return err
		}

		previousBalance := buyerWallet.Balance
		buyerWallet.Balance += order.EscrowAmount
		buyerWallet.LastTxnAt = now
		buyerWallet.UpdatedAt = now
		if err := tx.Set(r.walletRef(order.BuyerID), &buyerWallet); err != nil {
			return err
		}

		ledger := &entity.WalletTransaction{
			ID:              uuid.New().String(),
			WalletID:        buyerWallet.ID,
			UserID:          order.BuyerID,
			Type:            entity.WalletTxnRefund,
			Amount:          order.EscrowAmount,
			PreviousBalance: previousBalance,
			NewBalance:      buyerWallet.Balance,
			Status:          "completed",
			Reference:       order.ID,
			Description:     fmt.Sprintf("Refund for cancelled order %s", order.ID),
			ProcessedAt:     &now,
			CreatedAt:       now,
		}
		if err := tx.Set(r.client.Collection("walletTransactions").Doc(ledger.ID), ledger); err != nil {
			return err
		}

		if err := tx.Update(listingRef, []firestore.Update{
			{Path: "status", Value: entity.ListingStatusActive},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}

		result = order
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *firestoreOrderRepository) UpdateGuarded(ctx context.Context, orderID string, expected []string, mutate func(*entity.Order) error) (*entity.Order, error) {
	var result entity.Order

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(r.orderRef(orderID))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Order", err)
			}
			return err
		}

		var order entity.Order
		if err := doc.DataTo(&order); err != nil {
			return err
		}

		if !statusAllowed(order.Status, expected) {
			return errors.Conflict("Order is not in a valid status for this action")
		}

		if err := mutate(&order); err != nil {
			return err
		}
		order.UpdatedAt = time.Now()

		if err := tx.Set(r.orderRef(orderID), &order); err != nil {
			return err
		}

		result = order
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	doc, err := r.orderRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Order", err)
		}
		return nil, errors.Internal("Failed to get order", err)
	}

	var order entity.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, errors.Internal("Failed to parse order data", err)
	}

	return &order, nil
}

func (r *firestoreOrderRepository) ListByUserID(ctx context.Context, userID, role, status string, limit, offset int) ([]*entity.Order, int64, error) {
	field := "buyerId"
	if role == "seller" {
		field = "sellerId"
	}

	query := r.client.Collection("orders").Where(field, "==", userID)
	if status != "" {
		query = query.Where("status", "==", status)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	return r.collectOrders(ctx, query, limit, offset)
}

func (r *firestoreOrderRepository) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Order, int64, error) {
	query := r.client.Collection("orders").OrderBy("createdAt", firestore.Desc)
	for key, value := range filter {
		query = query.Where(key, "==", value)
	}

	return r.collectOrders(ctx, query, limit, offset)
}

func (r *firestoreOrderRepository) collectOrders(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.Order, int64, error) {
	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count orders", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var orders []*entity.Order
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list orders", err)
		}

		var order entity.Order
		if err := doc.DataTo(&order); err != nil {
			return nil, 0, errors.Internal("Failed to parse order data", err)
		}
		orders = append(orders, &order)
	}

	return orders, total, nil
}

func (r *firestoreOrderRepository) ListDueForAutoRelease(ctx context.Context, before time.Time, limit int) ([]*entity.Order, error) {
	query := r.client.Collection("orders").
		Where("status", "==", entity.OrderStatusAwaitingConfirmation).
		Where("autoReleaseAt", "<=", before).
		OrderBy("autoReleaseAt", firestore.Asc).
		Limit(limit)

	iter := query.Documents(ctx)
	var orders []*entity.Order
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var order entity.Order
		if err := doc.DataTo(&order); err != nil {
			return nil, err
		}
		orders = append(orders, &order)
	}

	return orders, nil
}

func (r *firestoreOrderRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	iter := r.client.Collection("orders").Documents(ctx)
	defer iter.Stop()

	counts := make(map[string]int)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var order entity.Order
		if err := doc.DataTo(&order); err != nil {
			continue
		}
		counts[order.Status]++
	}

	return counts, nil
}

func (r *firestoreOrderRepository) GetEscrowHold(ctx context.Context, orderID string) (*entity.EscrowHold, error) {
	doc, err := r.escrowRef(orderID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Escrow hold", err)
		}
		return nil, err
	}

	var hold entity.EscrowHold
	if err := doc.DataTo(&hold); err != nil {
		return nil, err
	}

	return &hold, nil
}

func (r *firestoreOrderRepository) CreateEvent(ctx context.Context, event *entity.OrderEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	_, err := r.client.Collection("orderEvents").Doc(event.ID).Set(ctx, event)
	return err
}

func (r *firestoreOrderRepository) ListEventsByOrderID(ctx context.Context, orderID string) ([]*entity.OrderEvent, error) {
	query := r.client.Collection("orderEvents").
		Where("orderId", "==", orderID).
		OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var events []*entity.OrderEvent
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var event entity.OrderEvent
		if err := doc.DataTo(&event); err != nil {
			return nil, err
		}
		events = append(events, &event)
	}

	return events, nil
}
