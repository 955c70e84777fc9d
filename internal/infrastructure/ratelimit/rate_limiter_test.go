package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustion(t *testing.T) {
	bucket := NewTokenBucket(3, 1, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := bucket.Allow()
		assert.True(t, allowed)
	}

	allowed, wait := bucket.Allow()
	assert.False(t, allowed)
	assert.True(t, wait > 0)
}

func TestLimiterIsolatesUsersAndActions(t *testing.T) {
	limiter := NewRateLimiter()

	// Drain alice's send_message budget
	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("alice", "send_message")
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow("alice", "send_message")
	assert.False(t, allowed)

	// Other users and other actions are untouched
	allowed, _ = limiter.Allow("bob", "send_message")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("alice", "typing")
	assert.True(t, allowed)
}
