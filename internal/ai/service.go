package ai

import (
	"context"
	"fmt"

	"resumematch/internal/config"
	"resumematch/internal/errors"
)

// Service embeds resume prompts into the configured instruction template
// and forwards them to the provider
type Service struct {
	Provider AIProvider // Exported for access from server package
	config   *config.AIConfig
	logger   *errors.Logger
}

// NewService creates a new AI service instance for the configured provider
func NewService(cfg *config.AIConfig, logger *errors.Logger) (*Service, error) {
	var provider AIProvider
	var err error

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"dialect", cfg.Dialect,
		"temperature", cfg.Temperature,
		"timeout", cfg.Timeout,
		"max_retries", cfg.MaxRetries,
		"use_system_prompt", cfg.UseSystemPrompt)

	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(cfg, logger)
	case "mock":
		provider = NewMockProvider(cfg.Dialect)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, err
	}

	return NewServiceWithProvider(provider, cfg, logger), nil
}

// NewServiceWithProvider wraps an existing provider
func NewServiceWithProvider(provider AIProvider, cfg *config.AIConfig, logger *errors.Logger) *Service {
	return &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}
}

// BuildPrompt embeds a resume prompt into the configured template
func (s *Service) BuildPrompt(resumePrompt string) string {
	return fillTemplate(templateFor(s.config), resumePrompt)
}

// Dialect returns the response dialect the template asks for
func (s *Service) Dialect() string {
	return s.config.Dialect
}

// Analyze returns the full model response for a resume prompt
func (s *Service) Analyze(ctx context.Context, resumePrompt string) (string, error) {
	return s.Provider.Analyze(ctx, s.BuildPrompt(resumePrompt))
}

// Stream yields the model response for a resume prompt chunk by chunk
func (s *Service) Stream(ctx context.Context, resumePrompt string, yield func(chunk string) error) error {
	return s.Provider.Stream(ctx, s.BuildPrompt(resumePrompt), yield)
}

// HasKey reports whether the provider has an API key configured
func (s *Service) HasKey() bool {
	return s.Provider.HasKey()
}

// KeyLength returns the length of the configured API key
func (s *Service) KeyLength() int {
	return s.Provider.KeyLength()
}

// GetCircuitBreakerStats returns provider breaker statistics when available
func (s *Service) GetCircuitBreakerStats() map[string]any {
	if sp, ok := s.Provider.(StatsProvider); ok {
		return sp.GetCircuitBreakerStats()
	}
	return map[string]any{"enabled": false}
}

// Close releases provider resources
func (s *Service) Close() error {
	return s.Provider.Close()
}
