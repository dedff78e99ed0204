// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_FirstWaitIsImmediate(t *testing.T) {
	l := New(time.Hour)
	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestLimiter_SpacesConsecutiveRequests(t *testing.T) {
	interval := 30 * time.Millisecond
	l := New(interval)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
	// Three requests need two full intervals.
	assert.GreaterOrEqual(t, time.Since(start), 2*interval-5*time.Millisecond)
}

func TestLimiter_BackoffDelaysNextWait(t *testing.T) {
	l := New(time.Millisecond)
	require.NoError(t, l.Wait(context.Background()))

	l.Backoff(40 * time.Millisecond)
	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestLimiter_BackoffNeverShortens(t *testing.T) {
	l := New(time.Millisecond)
	l.Backoff(time.Hour)
	l.Backoff(time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Wait(ctx), context.DeadlineExceeded)
}

func TestUnlimited(t *testing.T) {
	l := Unlimited()
	l.Backoff(time.Hour)

	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestUnlimited_HonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Unlimited().Wait(ctx), context.Canceled)
}

func TestNew_NonPositiveIntervalDoesNotWait(t *testing.T) {
	l := New(0)
	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}
