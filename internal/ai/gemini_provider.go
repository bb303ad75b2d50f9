package ai

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"resumematch/internal/config"
	matchErrors "resumematch/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client  *genai.Client
	config  *config.AIConfig
	breaker *modelBreaker
	logger  *matchErrors.Logger
	backoff func(attempt int) time.Duration
}

// Ensure GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance
func NewGeminiProvider(cfg *config.AIConfig, logger *matchErrors.Logger) (*GeminiProvider, error) {
	provider := &GeminiProvider{
		config:  cfg,
		breaker: newModelBreaker("gemini", cfg.CircuitBreaker, logger),
		logger:  logger,
		backoff: backoffDelay,
	}

	// Without a key the provider still serves health checks; calls fail with a config error
	if cfg.APIKey == "" {
		logger.Warn("No Gemini API key configured", "model", cfg.Model)
		return provider, nil
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, matchErrors.NewConfigError(matchErrors.ErrCodeInvalidConfig,
			"Failed to create Gemini client", err)
	}

	provider.client = client
	return provider, nil
}

// HasKey reports whether an API key is configured
func (g *GeminiProvider) HasKey() bool {
	return g.config.APIKey != ""
}

// KeyLength returns the length of the configured API key
func (g *GeminiProvider) KeyLength() int {
	return len(g.config.APIKey)
}

// Analyze generates the complete response for a prompt
func (g *GeminiProvider) Analyze(ctx context.Context, prompt string) (string, error) {
	ctx, span := g.startSpan(ctx, "gemini.analyze", prompt)
	defer span.End()

	if g.client == nil {
		return "", g.fail(span, missingKeyError())
	}

	genaiConfig := g.buildGenerateConfig()
	result, err := guarded(g.breaker, func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, "analyze", func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), genaiConfig)
		})
	})
	if err != nil {
		return "", g.fail(span, upstreamError(err))
	}

	text := result.Text()
	if usage := extractTokenUsage(result); usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}
	span.SetAttributes(
		attribute.Int("output.length", len(text)),
		attribute.Bool("success", true),
	)
	return text, nil
}

// Stream generates the response for a prompt and yields it chunk by chunk.
// Transient upstream errors are retried only while nothing has been yielded.
func (g *GeminiProvider) Stream(ctx context.Context, prompt string, yield func(chunk string) error) error {
	ctx, span := g.startSpan(ctx, "gemini.stream", prompt)
	defer span.End()

	if g.client == nil {
		return g.fail(span, missingKeyError())
	}

	genaiConfig := g.buildGenerateConfig()
	chunks := 0
	_, err := guarded(g.breaker, func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, "stream", func() (*genai.GenerateContentResponse, error) {
			for resp, err := range g.client.Models.GenerateContentStream(ctx, g.config.Model, genai.Text(prompt), genaiConfig) {
				if err != nil {
					if chunks > 0 {
						return nil, &streamInterruptedError{err: err}
					}
					return nil, err
				}
				text := resp.Text()
				if text == "" {
					continue
				}
				chunks++
				if yerr := yield(text); yerr != nil {
					return nil, &yieldError{err: yerr}
				}
			}
			return nil, nil
		})
	})

	span.SetAttributes(attribute.Int("output.chunks", chunks))
	if err != nil {
		var ye *yieldError
		if errors.As(err, &ye) {
			span.SetAttributes(attribute.Bool("success", false))
			return ye.err
		}
		return g.fail(span, upstreamError(err))
	}

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":   g.breaker.stats(),
		"overall_healthy": g.breaker.healthy(),
	}
}

// Close implements AIProvider interface
func (g *GeminiProvider) Close() error {
	return nil
}

func (g *GeminiProvider) startSpan(ctx context.Context, name, prompt string) (context.Context, trace.Span) {
	tracer := otel.Tracer("resumematch.ai.gemini")
	ctx, span := tracer.Start(ctx, name)
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.String("ai.dialect", g.config.Dialect),
		attribute.Float64("ai.temperature", float64(g.config.Temperature)),
		attribute.Int("input.prompt_length", len(prompt)),
	)
	return ctx, span
}

func (g *GeminiProvider) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetAttributes(attribute.Bool("success", false))
	return err
}

// buildGenerateConfig creates the request configuration for the configured dialect
func (g *GeminiProvider) buildGenerateConfig() *genai.GenerateContentConfig {
	genaiConfig := &genai.GenerateContentConfig{}

	if g.config.Dialect == DialectStructured {
		genaiConfig.ResponseMIMEType = "application/json"
	}

	if g.config.Temperature > 0 {
		temperature := g.config.Temperature
		genaiConfig.Temperature = &temperature
	}

	if system := systemPromptFor(g.config); system != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	return genaiConfig
}

// executeWithRetry executes a model call with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", g.config.MaxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(g.backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			return nil, err
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", g.config.MaxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, g.config.MaxRetries, lastErr)
}

// backoffDelay returns 2^(attempt-1) seconds plus up to 10% jitter, capped at 30 seconds
func backoffDelay(attempt int) time.Duration {
	baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
	jitter := time.Duration(0)
	if jitterMax := int64(float64(baseDelay) * 0.1); jitterMax > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
			jitter = time.Duration(n.Int64())
		}
	}
	return min(baseDelay+jitter, 30*time.Second)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var interrupted *streamInterruptedError
	var ye *yieldError
	if errors.As(err, &interrupted) || errors.As(err, &ye) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Network errors (timeouts, connection refused) are transient
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.Code)
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return isRetryableStatus(genaiErr.Code)
	}

	return false
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// streamInterruptedError marks a stream that failed after its first chunk
type streamInterruptedError struct{ err error }

func (e *streamInterruptedError) Error() string { return "stream interrupted: " + e.err.Error() }
func (e *streamInterruptedError) Unwrap() error { return e.err }

// yieldError carries an error returned by the caller's yield function
type yieldError struct{ err error }

func (e *yieldError) Error() string { return e.err.Error() }
func (e *yieldError) Unwrap() error { return e.err }

func missingKeyError() error {
	return matchErrors.NewConfigError(matchErrors.ErrCodeMissingAPIKey,
		"Missing GEMINI_API_KEY. Add it to your environment or configuration.", nil)
}

// upstreamError classifies a failed model call as a network failure
func upstreamError(err error) error {
	var appErr *matchErrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	code := matchErrors.ErrCodeAIServiceFailed
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(strings.ToLower(err.Error()), "timeout") {
		code = matchErrors.ErrCodeAITimeout
	}
	return matchErrors.NewNetworkError(code, "Failed to generate analysis", err)
}

// TokenUsage represents token usage information from model responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// extractTokenUsage extracts token usage information from a Gemini response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
