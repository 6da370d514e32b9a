package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSellerPayout(t *testing.T) {
	proceeds, commission := SellerPayout(1000)
	assert.Equal(t, 950.0, proceeds)
	assert.Equal(t, 50.0, commission)

	proceeds, commission = SellerPayout(500)
	assert.Equal(t, 475.0, proceeds)
	assert.Equal(t, 25.0, commission)

	// Rounded to the piastre.
	proceeds, commission = SellerPayout(99.99)
	assert.Equal(t, 5.0, commission)
	assert.Equal(t, 94.99, proceeds)
	assert.InDelta(t, 99.99, proceeds+commission, 0.0001)
}

func TestCanTransition(t *testing.T) {
	order := &Order{Status: OrderStatusEscrow}
	assert.True(t, order.CanTransition(OrderStatusDelivering))
	assert.True(t, order.CanTransition(OrderStatusAwaitingConfirmation))
	assert.True(t, order.CanTransition(OrderStatusCancelled))
	assert.False(t, order.CanTransition(OrderStatusDelivered))

	order.Status = OrderStatusAwaitingConfirmation
	assert.True(t, order.CanTransition(OrderStatusDelivered))
	assert.True(t, order.CanTransition(OrderStatusDisputed))
	assert.False(t, order.CanTransition(OrderStatusCancelled))

	// Terminal states allow nothing.
	for _, terminal := range []string{OrderStatusDelivered, OrderStatusCancelled} {
		order.Status = terminal
		for _, next := range []string{OrderStatusEscrow, OrderStatusDelivering, OrderStatusAwaitingConfirmation, OrderStatusDelivered, OrderStatusCancelled, OrderStatusDisputed} {
			assert.False(t, order.CanTransition(next), "%s -> %s", terminal, next)
		}
	}
}

func TestChatPairKeyDeterministic(t *testing.T) {
	assert.Equal(t, ChatPairKey("alice", "bob"), ChatPairKey("bob", "alice"))
	assert.Equal(t, "alice_bob", ChatPairKey("bob", "alice"))
	assert.NotEqual(t, ChatPairKey("alice", "bob"), ChatPairKey("alice", "carol"))
}
