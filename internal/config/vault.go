package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"resumematch/internal/errors"

	"github.com/hashicorp/vault/api"
)

// vaultTimeout bounds the whole secret loading step at startup
const vaultTimeout = 15 * time.Second

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"token_file"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets locates secrets in a KV version 2 engine.
// Paths are relative to Mount; an empty path skips that secret.
type VaultSecrets struct {
	Mount string `mapstructure:"mount"`

	AIKey      string `mapstructure:"ai_key"`
	AIKeyField string `mapstructure:"ai_key_field"`

	// The field holds a comma-separated list
	APIKeys      string `mapstructure:"api_keys"`
	APIKeysField string `mapstructure:"api_keys_field"`
}

func (s VaultSecrets) mount() string {
	if s.Mount == "" {
		return "secret"
	}
	return s.Mount
}

func (s VaultSecrets) aiKeyField() string {
	if s.AIKeyField == "" {
		return "api_key"
	}
	return s.AIKeyField
}

func (s VaultSecrets) apiKeysField() string {
	if s.APIKeysField == "" {
		return "keys"
	}
	return s.APIKeysField
}

// kvReader is the part of the KV v2 client the secret loader uses
type kvReader interface {
	Get(ctx context.Context, secretPath string) (*api.KVSecret, error)
}

// ApplyVaultSecrets overwrites the AI key and the server API keys with the
// values stored in Vault. It does nothing when Vault is disabled.
func ApplyVaultSecrets(config *Config, logger *errors.Logger) error {
	if !config.Vault.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled, skipping secret loading")
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), vaultTimeout)
	defer cancel()

	client, err := newVaultClient(ctx, config.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}

	kv := client.KVv2(config.Vault.Secrets.mount())
	return applySecrets(ctx, kv, config, logger)
}

// newVaultClient creates an authenticated client and checks that Vault answers
func newVaultClient(ctx context.Context, cfg VaultConfig, logger *errors.Logger) (*api.Client, error) {
	apiConfig := api.DefaultConfig()
	if cfg.Address != "" {
		apiConfig.Address = cfg.Address
	}

	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	token, err := resolveVaultToken(cfg)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().HealthWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vault at %s: %w", apiConfig.Address, err)
	}
	if health.Sealed {
		return nil, fmt.Errorf("vault at %s is sealed", apiConfig.Address)
	}

	if logger != nil {
		logger.Info("Connected to Vault",
			"address", apiConfig.Address,
			"namespace", cfg.Namespace,
			"version", health.Version)
	}
	return client, nil
}

// resolveVaultToken returns the configured token, or the contents of the token file
func resolveVaultToken(cfg VaultConfig) (string, error) {
	if cfg.Token != "" {
		return cfg.Token, nil
	}
	if cfg.TokenFile != "" {
		data, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		if token := strings.TrimSpace(string(data)); token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("vault token is required when vault is enabled")
}

func applySecrets(ctx context.Context, kv kvReader, config *Config, logger *errors.Logger) error {
	secrets := config.Vault.Secrets

	if secrets.APIKeys != "" {
		raw, err := readStringField(ctx, kv, secrets.APIKeys, secrets.apiKeysField())
		if err != nil {
			return fmt.Errorf("failed to load API keys from vault: %w", err)
		}
		if keys := splitKeys(raw); len(keys) > 0 {
			config.Server.APIKeys = keys
			if logger != nil {
				logger.Info("API keys loaded from Vault", "count", len(keys))
			}
		} else if logger != nil {
			logger.Warn("No API keys found in Vault", "path", secrets.APIKeys)
		}
	}

	if secrets.AIKey != "" {
		aiKey, err := readStringField(ctx, kv, secrets.AIKey, secrets.aiKeyField())
		if err != nil {
			return fmt.Errorf("failed to load AI API key from vault: %w", err)
		}
		aiKey = strings.TrimSpace(aiKey)
		if aiKey == "" {
			if logger != nil {
				logger.Warn("Empty AI API key found in Vault", "path", secrets.AIKey)
			}
			return nil
		}
		config.AI.APIKey = aiKey
		if logger != nil {
			logger.Info("AI API key loaded from Vault", "key", MaskSecret(aiKey))
		}
	}

	return nil
}

// readStringField reads one string field of the latest version of a secret
func readStringField(ctx context.Context, kv kvReader, path, field string) (string, error) {
	secret, err := kv.Get(ctx, path)
	if err != nil {
		return "", err
	}
	value, ok := secret.Data[field]
	if !ok {
		return "", fmt.Errorf("field %q not found in secret %s", field, path)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("field %q of secret %s is a %T, not a string", field, path, value)
	}
	return s, nil
}
