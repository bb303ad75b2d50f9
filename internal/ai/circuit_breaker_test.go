package ai

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"resumematch/internal/config"
	"resumematch/internal/errors"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func quietLogger() *errors.Logger {
	return errors.NewLoggerTo(io.Discard, slog.LevelError)
}

func breakerConfig(enabled bool) *config.AIConfig {
	return &config.AIConfig{
		Provider: "gemini",
		Model:    "test-model",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          enabled,
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			MinRequests:      2,
			FailureThreshold: 0.5,
		},
	}
}

func TestModelBreakerStats(t *testing.T) {
	b := newModelBreaker("gemini", breakerConfig(true).CircuitBreaker, quietLogger())
	require.NotNil(t, b)

	_, err := guarded(b, func() (string, error) { return "ok", nil })
	require.NoError(t, err)

	stats := b.stats()
	assert.True(t, stats.Enabled)
	assert.Equal(t, "ai-gemini", stats.Name)
	assert.Equal(t, "closed", stats.State)
	assert.Equal(t, uint32(1), stats.Requests)
	assert.True(t, b.healthy())
}

func TestModelBreakerDisabled(t *testing.T) {
	b := newModelBreaker("gemini", breakerConfig(false).CircuitBreaker, quietLogger())
	assert.Nil(t, b)

	calls := 0
	got, err := guarded(b, func() (*genai.GenerateContentResponse, error) {
		calls++
		return &genai.GenerateContentResponse{}, nil
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, 1, calls)
	assert.Equal(t, BreakerStats{}, b.stats())
	assert.True(t, b.healthy())
}

func TestModelBreakerTrips(t *testing.T) {
	b := newModelBreaker("gemini", breakerConfig(true).CircuitBreaker, quietLogger())
	upstream := stderrors.New("upstream down")

	for range 2 {
		_, err := guarded(b, func() (int, error) { return 0, upstream })
		assert.ErrorIs(t, err, upstream)
	}

	assert.False(t, b.healthy())
	assert.Equal(t, "open", b.stats().State)

	called := false
	_, err := guarded(b, func() (int, error) {
		called = true
		return 1, nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called, "open breaker must not call through")
}

func TestModelBreakerIgnoresCancellation(t *testing.T) {
	b := newModelBreaker("gemini", breakerConfig(true).CircuitBreaker, quietLogger())

	for range 3 {
		_, _ = guarded(b, func() (int, error) { return 0, context.Canceled })
		_, _ = guarded(b, func() (int, error) { return 0, &yieldError{err: stderrors.New("client gone")} })
	}

	assert.True(t, b.healthy())
	assert.Zero(t, b.stats().TotalFailures)
}
