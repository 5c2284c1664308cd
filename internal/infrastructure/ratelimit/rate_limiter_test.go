package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowSpendsBurstThenBlocks(t *testing.T) {
	rl := NewRateLimiter(map[string]Limit{
		"send_message": {Events: 3, Window: time.Minute},
	}, Limit{})

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("dev", "send_message")
		assert.True(t, ok, "event %d", i)
	}

	ok, wait := rl.Allow("dev", "send_message")
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))
	assert.LessOrEqual(t, wait, 20*time.Second)

	ok, _ = rl.Allow("other-dev", "send_message")
	assert.True(t, ok, "buckets are per key")
}

func TestRejectedCallsDoNotConsume(t *testing.T) {
	rl := NewRateLimiter(map[string]Limit{"a": {Events: 1, Window: time.Hour}}, Limit{})

	ok, _ := rl.Allow("dev", "a")
	assert.True(t, ok)
	for i := 0; i < 5; i++ {
		ok, _ = rl.Allow("dev", "a")
		assert.False(t, ok)
	}
	assert.Less(t, rl.Tokens("dev", "a"), 1.0)
	assert.Greater(t, rl.Tokens("dev", "a"), -0.01)
}

func TestZeroLimitNeverBlocks(t *testing.T) {
	rl := NewRateLimiter(nil, Limit{})
	for i := 0; i < 100; i++ {
		ok, _ := rl.Allow("dev", "anything")
		assert.True(t, ok)
	}
}

func TestCleanup(t *testing.T) {
	rl := NewRateLimiter(nil, Limit{Events: 1, Window: time.Second})
	rl.Allow("dev", "x")

	assert.Equal(t, 0, rl.Cleanup(time.Hour))
	assert.Equal(t, 1, rl.Cleanup(-time.Second))
}
