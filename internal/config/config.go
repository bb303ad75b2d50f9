package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// AI key precedence order:
// 1. Vault (if configured) - Highest priority
// 2. Config file values
// 3. Environment variables (RESUMEMATCH_AI_API_KEY, GEMINI_API_KEY, GOOGLE_API_KEY)
// 4. Default values - Lowest priority
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	Validator     ValidatorConfig     `mapstructure:"validator"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Vault         VaultConfig         `mapstructure:"vault"`

	// Sources records where the values came from
	Sources Sources `mapstructure:"-"`
}

// Sources describes the inputs Load read
type Sources struct {
	File        string
	EnvVars     []string
	PromptFiles []string
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"log_level"`
	DefaultFormat    string   `mapstructure:"default_format"`
	SupportedFormats []string `mapstructure:"supported_formats"`
}

// AIConfig holds the language model configuration
type AIConfig struct {
	Provider         string               `mapstructure:"provider"` // gemini or mock
	Model            string               `mapstructure:"model"`
	APIKey           string               `mapstructure:"api_key"`
	Timeout          time.Duration        `mapstructure:"timeout"`
	MaxRetries       int                  `mapstructure:"max_retries"`
	Temperature      float32              `mapstructure:"temperature"`
	Dialect          string               `mapstructure:"dialect"` // structured or legacy
	SuggestResources bool                 `mapstructure:"suggest_resources"`
	UseSystemPrompt  bool                 `mapstructure:"use_system_prompt"`
	Prompts          PromptConfig         `mapstructure:"prompts"`
	Loaded           LoadedPrompts        `mapstructure:"-"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// PromptConfig holds prompt overrides. File paths win over inline values.
type PromptConfig struct {
	System         string `mapstructure:"system"`
	SystemFile     string `mapstructure:"system_file"`
	Structured     string `mapstructure:"structured"`
	StructuredFile string `mapstructure:"structured_file"`
	Legacy         string `mapstructure:"legacy"`
	LegacyFile     string `mapstructure:"legacy_file"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`           // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"max_requests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`          // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`           // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"min_requests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failure_threshold"` // Failure ratio threshold (0.0-1.0)
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`

	// API authentication; empty disables it
	APIKeys []string `mapstructure:"api_keys"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	TLS       TLSConfig       `mapstructure:"tls"`
}

// TLSConfig holds file based TLS/mTLS configuration
type TLSConfig struct {
	Mode             string `mapstructure:"mode"` // disabled, server or mutual
	CertFile         string `mapstructure:"cert_file"`
	KeyFile          string `mapstructure:"key_file"`
	CAFile           string `mapstructure:"ca_file"`
	MinVersion       string `mapstructure:"min_version"`        // 1.2 or 1.3
	ClientAuthPolicy string `mapstructure:"client_auth_policy"` // require, request or verify
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	RequestsPerMin int  `mapstructure:"requests_per_min"`
	BurstCapacity  int  `mapstructure:"burst_capacity"`
	ByIP           bool `mapstructure:"by_ip"`
	ByAPIKey       bool `mapstructure:"by_api_key"`
}

// ValidatorConfig holds resume validator configuration
type ValidatorConfig struct {
	VocabularyFile string        `mapstructure:"vocabulary_file"`
	Watch          bool          `mapstructure:"watch"`
	DebounceDelay  time.Duration `mapstructure:"debounce_delay"`
}

// CacheConfig holds analysis result cache configuration
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool             `mapstructure:"enabled"`
	ServiceName     string           `mapstructure:"service_name"`
	ServiceVersion  string           `mapstructure:"service_version"`
	ServiceInstance string           `mapstructure:"service_instance"`
	ConsoleOutput   bool             `mapstructure:"console_output"`
	PrettyPrint     bool             `mapstructure:"pretty_print"`
	SampleRate      float64          `mapstructure:"sample_rate"`
	Metrics         MetricsConfig    `mapstructure:"metrics"`
	Prometheus      PrometheusConfig `mapstructure:"prometheus"`
	OTLP            OTLPConfig       `mapstructure:"otlp"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	CollectionInterval time.Duration `mapstructure:"collection_interval"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadConfig loads configuration from the default search paths and the environment
func LoadConfig() (*Config, error) {
	return Load("")
}

// Load loads configuration. A non-empty configFile replaces the search paths.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RESUMEMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/resumematch/")
		v.AddConfigPath("$HOME/.resumematch")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// Without an explicit file, running on defaults and environment is fine
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Sources = Sources{File: v.ConfigFileUsed(), EnvVars: setEnvVars(os.Environ())}

	config.applyFallbacks()

	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "gemini", "mock":
	default:
		return fmt.Errorf("unsupported AI provider: %q (must be 'gemini' or 'mock')", c.AI.Provider)
	}

	switch c.AI.Dialect {
	case "structured", "legacy":
	default:
		return fmt.Errorf("unsupported response dialect: %q (must be 'structured' or 'legacy')", c.AI.Dialect)
	}

	if c.AI.Model == "" && c.AI.Provider == "gemini" {
		return fmt.Errorf("ai.model is required for the gemini provider")
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive, got %s", c.AI.Timeout)
	}
	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("ai.max_retries cannot be negative, got %d", c.AI.MaxRetries)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai.temperature must be between 0 and 2, got %v", c.AI.Temperature)
	}
	if cb := c.AI.CircuitBreaker; cb.Enabled && (cb.FailureThreshold <= 0 || cb.FailureThreshold > 1) {
		return fmt.Errorf("ai.circuit_breaker.failure_threshold must be in (0, 1], got %v", cb.FailureThreshold)
	}

	if c.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("server.max_upload_bytes cannot be negative")
	}
	if rl := c.Server.RateLimit; rl.Enabled && (rl.RequestsPerMin <= 0 || rl.BurstCapacity <= 0) {
		return fmt.Errorf("server.rate_limit requires positive requests_per_min and burst_capacity")
	}

	if c.Cache.Enabled {
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required when the cache is enabled")
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive when the cache is enabled")
		}
	}

	if c.Validator.Watch && c.Validator.VocabularyFile == "" {
		return fmt.Errorf("validator.watch requires validator.vocabulary_file")
	}

	return c.ValidateTLSConfig()
}
