package ai

import "context"

// AIProvider is implemented by every language model backend
type AIProvider interface {
	// Analyze sends a fully built prompt and returns the complete response text
	Analyze(ctx context.Context, prompt string) (string, error)
	// Stream sends a fully built prompt and hands each chunk to yield as it arrives.
	// A yield error stops the stream and is returned unchanged.
	Stream(ctx context.Context, prompt string, yield func(chunk string) error) error
	HasKey() bool
	KeyLength() int
	Close() error
}

// StatsProvider is implemented by providers that expose circuit breaker statistics
type StatsProvider interface {
	GetCircuitBreakerStats() map[string]any
}
