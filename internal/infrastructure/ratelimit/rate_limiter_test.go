package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhausts(t *testing.T) {
	bucket := NewTokenBucket(3, 1, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := bucket.Allow()
		assert.True(t, allowed)
	}

	allowed, wait := bucket.Allow()
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))
}

func TestRateLimiterIsolatesUsersAndActions(t *testing.T) {
	limiter := NewRateLimiter()

	// Drain alice's message bucket.
	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("alice", "send_message")
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow("alice", "send_message")
	assert.False(t, allowed)

	// Bob's bucket and alice's other actions are unaffected.
	allowed, _ = limiter.Allow("bob", "send_message")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("alice", "create_order")
	assert.True(t, allowed)
}
