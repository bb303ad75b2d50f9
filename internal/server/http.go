package server

import (
	"time"

	"resumematch/internal/ai"
	"resumematch/internal/cache"
	"resumematch/internal/config"
	"resumematch/internal/errors"
	"resumematch/internal/extract"
	"resumematch/internal/observability"
	"resumematch/internal/parser"
	"resumematch/internal/pipeline"
	"resumematch/internal/validator"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

// ValidateResponse is the body of a successful POST /api/validate
type ValidateResponse struct {
	IsValid bool             `json:"isValid"`
	Reason  validator.Reason `json:"reason,omitempty"`
	Message string           `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *LimiterManager

	AI        *ai.Service
	Validator *validator.Validator
	Extractor extract.Extractor
	Parser    *parser.Parser
	Cache     cache.Cache

	Logger *errors.Logger

	// Set when the handler is built
	runner  *pipeline.Runner
	metrics *observability.Metrics
	now     func() time.Time
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host            string
	Port            string
	Version         string
	TLSConfig       config.TLSConfig
	APIKeys         []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxRequestSize  int64
	RateLimit       *config.RateLimitConfig
}

// Dependencies are the collaborators the handlers delegate to.
// A nil Cache is replaced by the one configured in AppConfig when the server starts.
type Dependencies struct {
	AI        *ai.Service
	Validator *validator.Validator
	Extractor extract.Extractor
	Parser    *parser.Parser
	Cache     cache.Cache
}

// NewServerConfig builds a ServerConfig from the application configuration
func NewServerConfig(appCfg *config.Config, version string) ServerConfig {
	rateLimit := appCfg.Server.RateLimit
	return ServerConfig{
		Host:            appCfg.Server.Host,
		Port:            appCfg.Server.Port,
		Version:         version,
		TLSConfig:       appCfg.Server.TLS,
		APIKeys:         appCfg.Server.APIKeys,
		ReadTimeout:     appCfg.Server.ReadTimeout,
		WriteTimeout:    appCfg.Server.WriteTimeout,
		IdleTimeout:     appCfg.Server.IdleTimeout,
		ShutdownTimeout: appCfg.Server.ShutdownTimeout,
		MaxRequestSize:  appCfg.Server.MaxUploadBytes,
		RateLimit:       &rateLimit,
	}
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, deps Dependencies, logger *errors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *LimiterManager
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewLimiterManager(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	return &Server{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Version:         cfg.Version,
		AppConfig:       appCfg,
		TLSConfig:       cfg.TLSConfig,
		APIKeys:         apiKeyMap,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		IdleTimeout:     cfg.IdleTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		MaxRequestSize:  cfg.MaxRequestSize,
		RateLimit:       cfg.RateLimit,
		RateLimiter:     rateLimiter,
		AI:              deps.AI,
		Validator:       deps.Validator,
		Extractor:       deps.Extractor,
		Parser:          deps.Parser,
		Cache:           deps.Cache,
		Logger:          logger,
		now:             time.Now,
	}
}
