package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"material-selector/internal/common/logger"
)

func fastRetry(max int) *RetryConfig {
	return &RetryConfig{MaxRetries: max, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}
}

func TestRetry_RecoversFromTransientErrors(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(3), logger.NewTestLogger(t), "ping", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("rpc error: code = Unavailable desc = connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(5), logger.NewNoOpLogger(), "ping", func(context.Context) error {
		calls++
		return errors.New("permission denied")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "ping failed: permission denied")
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(2), logger.NewNoOpLogger(), "ping", func(context.Context) error {
		calls++
		return errors.New("deadline exceeded")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}

	err := Retry(ctx, cfg, logger.NewNoOpLogger(), "ping", func(context.Context) error {
		cancel()
		return errors.New("connection reset by peer")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoff(t *testing.T) {
	cfg := &RetryConfig{BaseDelay: time.Second, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, backoff(cfg, 0))
	assert.Equal(t, 2*time.Second, backoff(cfg, 1))
	assert.Equal(t, 4*time.Second, backoff(cfg, 2))
	assert.Equal(t, 5*time.Second, backoff(cfg, 3))
	assert.Equal(t, 5*time.Second, backoff(cfg, 62))
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(errors.New("dial tcp 127.0.0.1:26500: connection refused")))
	assert.True(t, isRetryableZeebeError(errors.New("context deadline exceeded")))
	assert.True(t, isRetryableZeebeError(errors.New("code = Unavailable")))
	assert.False(t, isRetryableZeebeError(errors.New("NOT_FOUND: process not found")))
}
