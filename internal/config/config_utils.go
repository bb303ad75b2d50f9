package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"resumematch/internal/errors"
)

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	c.applyAIKeyFallbacks()
	c.applyServerAPIKeyFallbacks()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

// applyAIKeyFallbacks reads the model key from the variables the Gemini tooling uses
func (c *Config) applyAIKeyFallbacks() {
	if c.AI.APIKey != "" {
		return
	}
	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			c.AI.APIKey = key
			return
		}
	}
}

// applyServerAPIKeyFallbacks splits a comma-separated key list from the environment
func (c *Config) applyServerAPIKeyFallbacks() {
	// viper hands env lists over as a single element
	if len(c.Server.APIKeys) == 1 && strings.Contains(c.Server.APIKeys[0], ",") {
		c.Server.APIKeys = splitKeys(c.Server.APIKeys[0])
	}
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv("RESUMEMATCH_SERVER_API_KEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = splitKeys(apiKeysEnv)
		}
	}
}

func splitKeys(list string) []string {
	var keys []string
	for key := range strings.SplitSeq(list, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// applyTLSDefaults applies default TLS configuration values
func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.Mode == "" {
		c.Server.TLS.Mode = "disabled"
	}
	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// MaskSecret hides all but the first and last four characters of a secret
func MaskSecret(secret string) string {
	if len(secret) <= 8 {
		if secret == "" {
			return ""
		}
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}

// trackedEnvVars are reported by LogSummary when set
var trackedEnvVars = []string{
	"RESUMEMATCH_AI_API_KEY",
	"RESUMEMATCH_AI_PROVIDER",
	"RESUMEMATCH_AI_MODEL",
	"RESUMEMATCH_AI_DIALECT",
	"RESUMEMATCH_SERVER_PORT",
	"RESUMEMATCH_SERVER_HOST",
	"RESUMEMATCH_SERVER_API_KEYS",
	"RESUMEMATCH_APP_LOG_LEVEL",
	"RESUMEMATCH_CACHE_ENABLED",
	"RESUMEMATCH_VAULT_ENABLED",
	"GEMINI_API_KEY",
	"GOOGLE_API_KEY",
}

// setEnvVars returns the tracked variables present in environ, in tracked order
func setEnvVars(environ []string) []string {
	var set []string
	for _, name := range trackedEnvVars {
		if slices.ContainsFunc(environ, func(kv string) bool {
			k, v, _ := strings.Cut(kv, "=")
			return k == name && v != ""
		}) {
			set = append(set, name)
		}
	}
	return set
}

// LogSummary logs the configuration sources and key values at debug level.
// Secrets are reported only as configured or not.
func (c *Config) LogSummary(logger *errors.Logger) {
	file := c.Sources.File
	if file == "" {
		file = "none (defaults and environment)"
	}
	logger.Debug("Configuration sources",
		"file", file,
		"env", c.Sources.EnvVars,
		"prompt_files", c.Sources.PromptFiles)

	logger.Debug("Configuration values",
		"ai_provider", c.AI.Provider,
		"ai_model", c.AI.Model,
		"dialect", c.AI.Dialect,
		"ai_key", MaskSecret(c.AI.APIKey),
		"server", c.Server.Host+":"+c.Server.Port,
		"tls_mode", c.Server.TLS.Mode,
		"api_keys", len(c.Server.APIKeys),
		"cache", c.Cache.Enabled,
		"vocabulary_file", c.Validator.VocabularyFile,
		"vocabulary_watch", c.Validator.Watch,
		"vault", c.Vault.Enabled,
		"observability", c.Observability.Enabled)
}
