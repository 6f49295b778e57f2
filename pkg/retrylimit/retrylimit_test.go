package retrylimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockedHalvesRate(t *testing.T) {
	lim := NewAdaptiveLimiter(4, 1, 8, 1, 0.5)

	lim.Blocked()
	assert.Equal(t, 2.0, lim.CurrentLimit())

	lim.Blocked()
	lim.Blocked()
	// Floor at min.
	assert.Equal(t, 1.0, lim.CurrentLimit())
}

func TestSuccessHeldBackAfterRecentError(t *testing.T) {
	lim := NewAdaptiveLimiter(4, 1, 8, 1, 0.5)

	lim.Blocked()
	lim.Success() // too soon after the error, no step up
	assert.Equal(t, 2.0, lim.CurrentLimit())
}

func TestSuccessRaisesRateUpToMax(t *testing.T) {
	lim := NewAdaptiveLimiter(7, 1, 8, 1, 0.5)

	lim.Success()
	lim.Success()
	assert.Equal(t, 8.0, lim.CurrentLimit())
}

func TestWaitHonorsContext(t *testing.T) {
	lim := NewAdaptiveLimiter(1, 1, 1, 1, 0.5)
	require.NoError(t, lim.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	// Burst is exhausted, the next token is a second away.
	assert.Error(t, lim.Wait(ctx))
}
