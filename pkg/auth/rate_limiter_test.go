package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketLimiter_ExhaustsAndDenies(t *testing.T) {
	ctx := context.Background()
	limiter := NewTokenBucketLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "client")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, "client")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestTokenBucketLimiter_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	limiter := NewTokenBucketLimiter(1, time.Hour)

	allowed, _ := limiter.Allow(ctx, "a")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "a")
	assert.False(t, allowed)

	allowed, _ = limiter.Allow(ctx, "b")
	assert.True(t, allowed)
}

func TestTokenBucketLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	limiter := NewTokenBucketLimiter(1, time.Hour)

	_, _ = limiter.Allow(ctx, "client")
	allowed, _ := limiter.Allow(ctx, "client")
	require.False(t, allowed)

	require.NoError(t, limiter.Reset(ctx, "client"))

	allowed, _ = limiter.Allow(ctx, "client")
	assert.True(t, allowed)
}

func TestTokenBucketLimiter_Refills(t *testing.T) {
	ctx := context.Background()
	limiter := NewTokenBucketLimiter(1, 10*time.Millisecond)

	_, _ = limiter.Allow(ctx, "client")
	allowed, _ := limiter.Allow(ctx, "client")
	require.False(t, allowed)

	time.Sleep(25 * time.Millisecond)

	allowed, _ = limiter.Allow(ctx, "client")
	assert.True(t, allowed)
}
