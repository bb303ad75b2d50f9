package ai

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

const defaultMockChunkSize = 256

// MockProvider serves the demo analysis without calling a model.
// It is used for demos, offline development and tests.
type MockProvider struct {
	response  string
	chunkSize int
	err       error
	streamErr error
	hasKey    bool
	keyLength int

	mu      sync.Mutex
	prompts []string
}

// Ensure MockProvider implements AIProvider
var _ AIProvider = (*MockProvider)(nil)

// MockOption configures a MockProvider
type MockOption func(*MockProvider)

// WithMockResponse replaces the demo analysis with a fixed response text
func WithMockResponse(response string) MockOption {
	return func(m *MockProvider) { m.response = response }
}

// WithMockChunkSize sets how many bytes each streamed chunk carries
func WithMockChunkSize(size int) MockOption {
	return func(m *MockProvider) {
		if size > 0 {
			m.chunkSize = size
		}
	}
}

// WithMockError makes every call fail with err before any output
func WithMockError(err error) MockOption {
	return func(m *MockProvider) { m.err = err }
}

// WithMockStreamError makes Stream fail with err after its first chunk
func WithMockStreamError(err error) MockOption {
	return func(m *MockProvider) { m.streamErr = err }
}

// WithMockKey makes the provider report a configured key of the given value
func WithMockKey(key string) MockOption {
	return func(m *MockProvider) {
		m.hasKey = key != ""
		m.keyLength = len(key)
	}
}

// NewMockProvider creates a mock provider answering in the given dialect
func NewMockProvider(dialect string, opts ...MockOption) *MockProvider {
	m := &MockProvider{
		response:  demoResponse(dialect),
		chunkSize: defaultMockChunkSize,
		hasKey:    true,
		keyLength: len("mock"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func demoResponse(dialect string) string {
	if dialect == DialectLegacy {
		return DemoLegacyResponse
	}
	data, err := json.Marshal(DemoAnalysis(time.Now()))
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Analyze returns the whole canned response
func (m *MockProvider) Analyze(ctx context.Context, prompt string) (string, error) {
	m.record(prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// Stream yields the canned response in fixed size chunks
func (m *MockProvider) Stream(ctx context.Context, prompt string, yield func(chunk string) error) error {
	m.record(prompt)
	if m.err != nil {
		return m.err
	}
	for rest := m.response; rest != ""; {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(m.chunkSize, len(rest))
		if err := yield(rest[:n]); err != nil {
			return err
		}
		if m.streamErr != nil {
			return m.streamErr
		}
		rest = rest[n:]
	}
	return nil
}

// HasKey reports the configured key state
func (m *MockProvider) HasKey() bool { return m.hasKey }

// KeyLength reports the configured key length
func (m *MockProvider) KeyLength() int { return m.keyLength }

// Close implements AIProvider interface
func (m *MockProvider) Close() error { return nil }

// Prompts returns every prompt received so far
func (m *MockProvider) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

func (m *MockProvider) record(prompt string) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
}
