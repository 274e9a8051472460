package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_FirstWaitBlocksFullInterval(t *testing.T) {
	interval := 50 * time.Millisecond
	gate := NewGate(interval)

	start := time.Now()
	require.NoError(t, gate.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), interval)
}

func TestGate_ZeroIntervalDoesNotBlock(t *testing.T) {
	gate := NewGate(0)

	start := time.Now()
	require.NoError(t, gate.Wait(context.Background()))
	assert.Less(t, time.Since(start), 20*time.Millisecond)
}

func TestGate_CancelledContextAbortsWait(t *testing.T) {
	gate := NewGate(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := gate.Wait(ctx)
	assert.Error(t, err)
}

func TestGate_Interval(t *testing.T) {
	assert.Equal(t, 6*time.Second, NewGate(6*time.Second).Interval())
	assert.Zero(t, NewGate(0).Interval())
}
