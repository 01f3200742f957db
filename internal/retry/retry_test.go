package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"video-upscaler-backend/internal/retry"
)

func TestDo_SucceedsAfterFailures(t *testing.T) {
	callCount := 0
	err := retry.Do(context.Background(), retry.Fixed(3, time.Millisecond), func(context.Context) error {
		callCount++
		if callCount < 3 {
			return assert.AnError
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
}

func TestDo_Exhausted(t *testing.T) {
	var retried []int
	err := retry.Do(context.Background(), retry.Fixed(3, time.Millisecond), func(context.Context) error {
		return assert.AnError
	}, func(attempt int, err error) {
		retried = append(retried, attempt)
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.True(t, errors.Is(err, assert.AnError))
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0
	err := retry.Do(ctx, retry.Fixed(5, time.Hour), func(context.Context) error {
		callCount++
		cancel()
		return assert.AnError
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, callCount)
}

func TestBackoff_Delays(t *testing.T) {
	p := retry.Backoff(4, time.Second)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, p.Delays)
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	callCount := 0
	_ = retry.Do(context.Background(), retry.Policy{}, func(context.Context) error {
		callCount++
		return assert.AnError
	})
	assert.Equal(t, 1, callCount)
}
