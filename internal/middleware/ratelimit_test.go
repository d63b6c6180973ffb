package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(3, 1)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow(), "bucket drained")
}

func TestRateLimiterIsolatesKeys(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	assert.True(t, rl.Allow("u1:1.2.3.4"))
	assert.False(t, rl.Allow("u1:1.2.3.4"))
	assert.True(t, rl.Allow("u2:1.2.3.4"), "separate caller gets its own bucket")
}
