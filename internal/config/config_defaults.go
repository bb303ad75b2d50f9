package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.default_format", "text")
	v.SetDefault("app.supported_formats", []string{"json", "text", "markdown"})

	// AI
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.max_retries", 3)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.dialect", "structured")
	v.SetDefault("ai.suggest_resources", false)
	v.SetDefault("ai.use_system_prompt", true)
	v.SetDefault("ai.prompts.system", "")
	v.SetDefault("ai.prompts.system_file", "")
	v.SetDefault("ai.prompts.structured", "")
	v.SetDefault("ai.prompts.structured_file", "")
	v.SetDefault("ai.prompts.legacy", "")
	v.SetDefault("ai.prompts.legacy_file", "")
	v.SetDefault("ai.circuit_breaker.enabled", true)
	v.SetDefault("ai.circuit_breaker.max_requests", 3)
	v.SetDefault("ai.circuit_breaker.interval", 60*time.Second)
	v.SetDefault("ai.circuit_breaker.timeout", 60*time.Second)
	v.SetDefault("ai.circuit_breaker.min_requests", 3)
	v.SetDefault("ai.circuit_breaker.failure_threshold", 0.6)

	// Server
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.max_upload_bytes", 10*1024*1024)
	v.SetDefault("server.api_keys", []string{})
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.requests_per_min", 30)
	v.SetDefault("server.rate_limit.burst_capacity", 5)
	v.SetDefault("server.rate_limit.by_ip", true)
	v.SetDefault("server.rate_limit.by_api_key", false)
	v.SetDefault("server.tls.mode", "disabled")
	v.SetDefault("server.tls.cert_file", "")
	v.SetDefault("server.tls.key_file", "")
	v.SetDefault("server.tls.ca_file", "")
	v.SetDefault("server.tls.min_version", "")
	v.SetDefault("server.tls.client_auth_policy", "")

	// Validator
	v.SetDefault("validator.vocabulary_file", "")
	v.SetDefault("validator.watch", false)
	v.SetDefault("validator.debounce_delay", 500*time.Millisecond)

	// Cache
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.redis_url", "redis://localhost:6379/0")
	v.SetDefault("cache.ttl", 24*time.Hour)

	// Observability
	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.service_name", "resumematch")
	v.SetDefault("observability.service_version", "")
	v.SetDefault("observability.service_instance", "")
	v.SetDefault("observability.console_output", false)
	v.SetDefault("observability.pretty_print", false)
	v.SetDefault("observability.sample_rate", 1.0)
	v.SetDefault("observability.metrics.collection_interval", 15*time.Second)
	v.SetDefault("observability.prometheus.enabled", false)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)

	// Vault
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.token_file", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.mount", "secret")
	v.SetDefault("vault.secrets.api_keys", "")
	v.SetDefault("vault.secrets.api_keys_field", "keys")
	v.SetDefault("vault.secrets.ai_key", "")
	v.SetDefault("vault.secrets.ai_key_field", "api_key")
}
