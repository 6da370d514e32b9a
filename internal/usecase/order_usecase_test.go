package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamemarket/internal/domain/entity"
	"gamemarket/internal/infrastructure/ratelimit"
	"gamemarket/pkg/errors"
)

func newOrderFixture(t *testing.T) (*OrderUseCase, *fakeStore, *fakeNotifier) {
	t.Helper()
	store := newFakeStore()
	notifier := &fakeNotifier{}
	uc := NewOrderUseCase(
		&fakeOrderRepo{s: store},
		&fakeListingRepo{s: store},
		&fakeUserRepo{s: store},
		notifier,
		ratelimit.NewRateLimiter(),
		72*time.Hour,
	)
	return uc, store, notifier
}

func TestCreateOrderHoldsEscrow(t *testing.T) {
	uc, store, _ := newOrderFixture(t)
	store.addUser("buyer", 2000)
	store.addUser("seller", 0)
	store.addListing("acc-1", "seller", 1000)

	order, err := uc.Create(context.Background(), "buyer", CreateOrderInput{AccountID: "acc-1"})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusEscrow, order.Status)
	assert.Equal(t, entity.EscrowStatusHeld, order.EscrowStatus)
	assert.Equal(t, 1000.0, order.Amount)
	assert.Equal(t, 1000.0, store.wallets["buyer"].Balance)
	assert.Equal(t, entity.ListingStatusPending, store.listings["acc-1"].Status)
	assert.Len(t, store.events, 1)
}

func TestCreateOrderIdempotent(t *testing.T) {
	uc, store, notifier := newOrderFixture(t)
	store.addUser("buyer", 2000)
	store.addUser("seller", 0)
	store.addListing("acc-1", "seller", 500)

	input := CreateOrderInput{AccountID: "acc-1", IdempotencyKey: "req-abc"}
	first, err := uc.Create(context.Background(), "buyer", input)
	require.NoError(t, err)

	// Retried request with the same key returns the stored order and does
	// not charge the wallet or record anything again.
	second, err := uc.Create(context.Background(), "buyer", input)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1500.0, store.wallets["buyer"].Balance)
	assert.Len(t, store.events, 1)
	assert.Len(t, notifier.events, 1)
}

func TestCreateOrderInsufficientBalance(t *testing.T) {
	uc, store, _ := newOrderFixture(t)
	store.addUser("buyer", 100)
	store.addUser("seller", 0)
	store.addListing("acc-1", "seller", 1000)

	_, err := uc.Create(context.Background(), "buyer", CreateOrderInput{AccountID: "acc-1"})
	require.Error(t, err)

	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Equal(t, 100.0, store.wallets["buyer"].Balance)
	assert.Equal(t, entity.ListingStatusActive, store.listings["acc-1"].Status)
}

func TestCreateOrderOwnListingRejected(t *testing.T) {
	uc, store, _ := newOrderFixture(t)
	store.addUser("seller", 5000)
	store.addListing("acc-1", "seller", 1000)

	_, err := uc.Create(context.Background(), "seller", CreateOrderInput{AccountID: "acc-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "own listing")
}

func TestConfirmDeliverySettlesOnce(t *testing.T) {
	uc, store, _ := newOrderFixture(t)
	store.addUser("buyer", 2000)
	store.addUser("seller", 0)
	store.addListing("acc-1", "seller", 1000)

	ctx := context.Background()
	order, err := uc.Create(ctx, "buyer", CreateOrderInput{AccountID: "acc-1"})
	require.NoError(t, err)

	_, err = uc.DeliverAccountDetails(ctx, "seller", order.ID, map[string]interface{}{"login": "x", "password": "y"})
	require.NoError(t, err)

	settled, err := uc.ConfirmDelivery(ctx, "buyer", order.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusDelivered, settled.Status)
	assert.Equal(t, 950.0, settled.SellerProceeds)
	assert.Equal(t, 50.0, settled.Commission)
	assert.Equal(t, 950.0, store.wallets["seller"].Balance)
	assert.Equal(t, entity.ListingStatusSold, store.listings["acc-1"].Status)

	// Both parties' loyalty counters advance on settlement.
	assert.Equal(t, 1000.0, store.users["buyer"].TotalTransactionValue)
	assert.Equal(t, 1000.0, store.users["seller"].TotalTransactionValue)
	assert.Equal(t, 2, store.users["buyer"].Level)

	// A repeat confirm finds the order delivered and moves no money.
	_, err = uc.ConfirmDelivery(ctx, "buyer", order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
	assert.Equal(t, 950.0, store.wallets["seller"].Balance)
}

func TestConfirmDeliveryBuyerOnly(t *testing.T) {
	uc, store, _ := newOrderFixture(t)
	store.addUser("buyer", 2000)
	store.addUser("seller", 0)
	store.addListing("acc-1", "seller", 1000)

	ctx := context.Background()
	order, err := uc.Create(ctx, "buyer", CreateOrderInput{AccountID: "acc-1"})
	require.NoError(t, err)
	_, err = uc.DeliverAccountDetails(ctx, "seller", order.ID, map[string]interface{}{"login": "x"})
	require.NoError(t, err)

	_, err = uc.ConfirmDelivery(ctx, "seller", order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestConfirmBeforeDeliveryRejected(t *testing.T) {
	uc, store, _ := newOrderFixture(t)
	store.addUser("buyer", 2000)
	store.addUser("seller", 0)
	store.addListing("acc-1", "seller", 1000)

	ctx := context.Background()
	order, err := uc.Create(ctx, "buyer", CreateOrderInput{AccountID: "acc-1"})
	require.NoError(t, err)

	// Still in escrow, nothing delivered yet.
	_, err = uc.ConfirmDelivery(ctx, "buyer", order.ID)
	require.Error(t, err)
	assert.Equal(t, 0.0, store.wallets["seller"].Balance)
}

func TestCancelRefundsBuyer(t *testing.T) {
	uc, store, _ := newOrderFixture(t)
	store.addUser("buyer", 2000)
	store.addUser("seller", 0)
	store.addListing("acc-1", "seller", 800)

	ctx := context.Background()
	order, err := uc.Create(ctx, "buyer", CreateOrderInput{AccountID: "acc-1"})
	require.NoError(t, err)
	assert.Equal(t, 1200.0, store.wallets["buyer"].Balance)

	cancelled, err := uc.Cancel(ctx, "buyer", order.ID, "changed my mind")
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, "changed my mind", cancelled.CancellationReason)
	assert.Equal(t, 2000.0, store.wallets["buyer"].Balance)
	assert.Equal(t, entity.ListingStatusActive, store.listings["acc-1"].Status)
}

func TestCancelAfterDeliveryRejected(t *testing.T) {
	uc, store, _ := newOrderFixture(t)
	store.addUser("buyer", 2000)
	store.addUser("seller", 0)
	store.addListing("acc-1", "seller", 800)

	ctx := context.Background()
	order, err := uc.Create(ctx, "buyer", CreateOrderInput{AccountID: "acc-1"})
	require.NoError(t, err)
	_, err = uc.DeliverAccountDetails(ctx, "seller", order.ID, map[string]interface{}{"login": "x"})
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, "buyer", order.ID, "too late")
	require.Error(t, err)
	assert.Equal(t, 1200.0, store.wallets["buyer"].Balance)
}

func TestCancelByStrangerRejected(t *testing.T) {
	uc, store, _ := newOrderFixture(t)
	store.addUser("buyer", 2000)
	store.addUser("seller", 0)
	store.addUser("stranger", 0)
	store.addListing("acc-1", "seller", 800)

	ctx := context.Background()
	order, err := uc.Create(ctx, "buyer", CreateOrderInput{AccountID: "acc-1"})
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, "stranger", order.ID, "not mine")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestDisputeStopsAutoRelease(t *testing.T) {
	uc, store, _ := newOrderFixture(t)
	store.addUser("buyer", 2000)
	store.addUser("seller", 0)
	store.addListing("acc-1", "seller", 1000)

	ctx := context.Background()
	order, err := uc.Create(ctx, "buyer", CreateOrderInput{AccountID: "acc-1"})
	require.NoError(t, err)
	delivered, err := uc.DeliverAccountDetails(ctx, "seller", order.ID, map[string]interface{}{"login": "x"})
	require.NoError(t, err)
	require.NotNil(t, delivered.AutoReleaseAt)

	disputed, err := uc.Dispute(ctx, "buyer", order.ID, "account credentials do not work")
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusDisputed, disputed.Status)
	assert.Nil(t, disputed.AutoReleaseAt)
	assert.Equal(t, "account credentials do not work", disputed.DisputeReason)

	// Escrow stays held until an admin resolves.
	assert.Equal(t, 0.0, store.wallets["seller"].Balance)

	due, err := (&fakeOrderRepo{s: store}).ListDueForAutoRelease(ctx, time.Now().Add(100*time.Hour), 50)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestResolveDisputeRefund(t *testing.T) {
	uc, store, _ := newOrderFixture(t)
	store.addUser("buyer", 2000)
	store.addUser("seller", 0)
	store.addUser("admin", 0)
	store.addListing("acc-1", "seller", 1000)

	ctx := context.Background()
	order, err := uc.Create(ctx, "buyer", CreateOrderInput{AccountID: "acc-1"})
	require.NoError(t, err)
	_, err = uc.DeliverAccountDetails(ctx, "seller", order.ID, map[string]interface{}{"login": "x"})
	require.NoError(t, err)
	_, err = uc.Dispute(ctx, "buyer", order.ID, "credentials invalid")
	require.NoError(t, err)

	resolved, err := uc.ResolveDispute(ctx, "admin", order.ID, false, "seller failed verification")
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusCancelled, resolved.Status)
	assert.Equal(t, 2000.0, store.wallets["buyer"].Balance)
	assert.Equal(t, 0.0, store.wallets["seller"].Balance)
}

func TestResolveDisputeRelease(t *testing.T) {
	uc, store, _ := newOrderFixture(t)
	store.addUser("buyer", 2000)
	store.addUser("seller", 0)
	store.addUser("admin", 0)
	store.addListing("acc-1", "seller", 1000)

	ctx := context.Background()
	order, err := uc.Create(ctx, "buyer", CreateOrderInput{AccountID: "acc-1"})
	require.NoError(t, err)
	_, err = uc.DeliverAccountDetails(ctx, "seller", order.ID, map[string]interface{}{"login": "x"})
	require.NoError(t, err)
	_, err = uc.Dispute(ctx, "buyer", order.ID, "slow delivery")
	require.NoError(t, err)

	resolved, err := uc.ResolveDispute(ctx, "admin", order.ID, true, "delivery verified")
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusDelivered, resolved.Status)
	assert.Equal(t, 950.0, store.wallets["seller"].Balance)
}

func TestAccountDetailsHiddenUntilDelivered(t *testing.T) {
	uc, store, _ := newOrderFixture(t)
	store.addUser("buyer", 2000)
	store.addUser("seller", 0)
	store.addListing("acc-1", "seller", 1000)

	ctx := context.Background()
	order, err := uc.Create(ctx, "buyer", CreateOrderInput{AccountID: "acc-1"})
	require.NoError(t, err)

	_, details, err := uc.GetByID(ctx, "buyer", order.ID)
	require.NoError(t, err)
	assert.Nil(t, details)

	payload := map[string]interface{}{"login": "x", "password": "y"}
	_, err = uc.DeliverAccountDetails(ctx, "seller", order.ID, payload)
	require.NoError(t, err)

	_, details, err = uc.GetByID(ctx, "buyer", order.ID)
	require.NoError(t, err)
	assert.Equal(t, payload, details)
}

func TestAutoReleaseSettlesDueOrders(t *testing.T) {
	uc, store, _ := newOrderFixture(t)
	store.addUser("buyer", 2000)
	store.addUser("seller", 0)
	store.addListing("acc-1", "seller", 1000)

	ctx := context.Background()
	order, err := uc.Create(ctx, "buyer", CreateOrderInput{AccountID: "acc-1"})
	require.NoError(t, err)
	_, err = uc.DeliverAccountDetails(ctx, "seller", order.ID, map[string]interface{}{"login": "x"})
	require.NoError(t, err)

	// Push the deadline into the past so the scan picks the order up.
	past := time.Now().Add(-time.Hour)
	store.orders[order.ID].AutoReleaseAt = &past

	uc.releaseDueOrders(ctx)

	assert.Equal(t, entity.OrderStatusDelivered, store.orders[order.ID].Status)
	assert.Equal(t, 950.0, store.wallets["seller"].Balance)
}
