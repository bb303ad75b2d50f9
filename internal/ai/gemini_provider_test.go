package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"testing"
	"time"

	"resumematch/internal/config"
	"resumematch/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func newRetryProvider(maxRetries int) *GeminiProvider {
	return &GeminiProvider{
		config:  &config.AIConfig{Model: "test-model", MaxRetries: maxRetries},
		logger:  quietLogger(),
		backoff: func(int) time.Duration { return 0 },
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", stderrors.New("bad request"), false},
		{"network", &net.OpError{Op: "dial", Err: stderrors.New("connection refused")}, true},
		{"too many requests", &googleapi.Error{Code: 429}, true},
		{"unavailable", fmt.Errorf("wrapped: %w", &googleapi.Error{Code: 503}), true},
		{"bad gateway", &googleapi.Error{Code: 502}, true},
		{"forbidden", &googleapi.Error{Code: 403}, false},
		{"genai unavailable", genai.APIError{Code: 503}, true},
		{"genai invalid", genai.APIError{Code: 400}, false},
		{"canceled", context.Canceled, false},
		{"interrupted stream", &streamInterruptedError{err: &googleapi.Error{Code: 503}}, false},
		{"yield", &yieldError{err: stderrors.New("client gone")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		attempt int
		base    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
	}
	for _, tt := range tests {
		got := backoffDelay(tt.attempt)
		assert.GreaterOrEqual(t, got, tt.base)
		assert.LessOrEqual(t, got, tt.base+tt.base/10)
	}

	assert.Equal(t, 30*time.Second, backoffDelay(10))
}

func TestExecuteWithRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		g := newRetryProvider(3)
		calls := 0
		want := &genai.GenerateContentResponse{}

		got, err := g.executeWithRetry(context.Background(), "test", func() (*genai.GenerateContentResponse, error) {
			calls++
			if calls < 3 {
				return nil, &googleapi.Error{Code: 503}
			}
			return want, nil
		})

		require.NoError(t, err)
		assert.Same(t, want, got)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		g := newRetryProvider(3)
		calls := 0

		_, err := g.executeWithRetry(context.Background(), "test", func() (*genai.GenerateContentResponse, error) {
			calls++
			return nil, &googleapi.Error{Code: 400}
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		g := newRetryProvider(2)
		calls := 0

		_, err := g.executeWithRetry(context.Background(), "test", func() (*genai.GenerateContentResponse, error) {
			calls++
			return nil, &googleapi.Error{Code: 429}
		})

		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.Contains(t, err.Error(), "failed after 2 retries")
	})

	t.Run("honours cancellation between attempts", func(t *testing.T) {
		g := newRetryProvider(5)
		g.backoff = func(int) time.Duration { return time.Hour }
		ctx, cancel := context.WithCancel(context.Background())

		_, err := g.executeWithRetry(ctx, "test", func() (*genai.GenerateContentResponse, error) {
			cancel()
			return nil, &googleapi.Error{Code: 503}
		})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGeminiProviderWithoutKey(t *testing.T) {
	cfg := &config.AIConfig{Provider: "gemini", Model: "gemini-2.0-flash", Dialect: DialectStructured}

	g, err := NewGeminiProvider(cfg, quietLogger())
	require.NoError(t, err)
	assert.False(t, g.HasKey())
	assert.Equal(t, 0, g.KeyLength())

	_, err = g.Analyze(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, errors.KindConfig, errors.KindOf(err))

	err = g.Stream(context.Background(), "prompt", func(string) error { return nil })
	assert.Equal(t, errors.KindConfig, errors.KindOf(err))
}

func TestBuildGenerateConfig(t *testing.T) {
	cfg := &config.AIConfig{
		Dialect:         DialectStructured,
		Temperature:     0.4,
		UseSystemPrompt: true,
		Prompts:         config.PromptConfig{System: "inline system"},
	}
	g := &GeminiProvider{config: cfg}

	gc := g.buildGenerateConfig()
	assert.Equal(t, "application/json", gc.ResponseMIMEType)
	require.NotNil(t, gc.Temperature)
	assert.InDelta(t, 0.4, *gc.Temperature, 0.0001)
	require.NotNil(t, gc.SystemInstruction)
	require.Len(t, gc.SystemInstruction.Parts, 1)
	assert.Equal(t, "inline system", gc.SystemInstruction.Parts[0].Text)

	cfg.Dialect = DialectLegacy
	cfg.UseSystemPrompt = false
	cfg.Temperature = 0
	gc = g.buildGenerateConfig()
	assert.Empty(t, gc.ResponseMIMEType)
	assert.Nil(t, gc.Temperature)
	assert.Nil(t, gc.SystemInstruction)
}

func TestUpstreamError(t *testing.T) {
	err := upstreamError(context.DeadlineExceeded)
	assert.Equal(t, errors.KindNetworkFailure, errors.KindOf(err))

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeAITimeout, appErr.Code)

	cfgErr := missingKeyError()
	assert.Same(t, cfgErr, upstreamError(cfgErr))
}
