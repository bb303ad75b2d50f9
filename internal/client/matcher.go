// Package client talks to a running resumematch server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"resumematch/internal/errors"
	"resumematch/internal/types"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultTimeout bounds a whole matcher round trip, including the streamed body
const DefaultTimeout = 120 * time.Second

// MatcherClient posts resume prompts to /api/matcher.
// It does not retry; a failed call is reported once as a network failure.
type MatcherClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewMatcherClient creates a client for the server at baseURL
func NewMatcherClient(baseURL, apiKey string, timeout time.Duration) *MatcherClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &MatcherClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// errorBody mirrors the server's error response
type errorBody struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Analyze sends a resume prompt and returns the complete streamed response text
func (c *MatcherClient) Analyze(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(types.MatcherRequest{Prompt: prompt})
	if err != nil {
		return "", errors.NewInternalError(errors.ErrCodeInvalidRequest, "Failed to encode the analysis request.", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/api/matcher", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", transportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp.StatusCode, respBody)
	}

	// Trailers are only readable once the body is drained
	if resp.Trailer.Get(types.StreamStatusTrailer) == types.StreamInterrupted {
		return "", errors.NewNetworkError(errors.ErrCodeStreamInterrupted,
			"The analysis was interrupted before it finished. Please try again.", nil).
			WithContext("received_bytes", len(respBody))
	}

	return string(respBody), nil
}

// Health fetches the server's health report
func (c *MatcherClient) Health(ctx context.Context) (*types.HealthResponse, error) {
	httpReq, err := c.newRequest(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, respBody)
	}

	var health types.HealthResponse
	if err := json.Unmarshal(respBody, &health); err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeUpstreamStatus,
			"The analysis service returned an unreadable health report.", err)
	}
	return &health, nil
}

func (c *MatcherClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Invalid server URL: %s", c.BaseURL), err)
	}
	if c.APIKey != "" {
		httpReq.Header.Set("X-API-Key", c.APIKey)
	}
	return httpReq, nil
}

// transportError classifies a failed round trip. Cancellation is returned unwrapped.
func transportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && stderrors.Is(err, ctxErr) {
		return ctxErr
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.NewNetworkError(errors.ErrCodeNetworkTimeout,
			"The analysis service took too long to respond. Please try again.", err)
	}

	return errors.NewNetworkError(errors.ErrCodeAIServiceFailed,
		"The analysis service could not be reached. Please try again.", err)
}

// statusError turns a non-2xx response into a network failure carrying the server's message
func statusError(status int, body []byte) error {
	message := "The analysis service is unavailable. Please try again."

	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Message != "" {
		message = eb.Message
	}

	return errors.NewNetworkError(errors.ErrCodeUpstreamStatus, message,
		fmt.Errorf("server returned status %d", status)).
		WithContext("status", status).
		WithContext("upstream_kind", eb.Kind)
}
