package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resumematch/internal/errors"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *errors.Logger {
	logger, _ := errors.New("debug")
	return logger
}

// fakeKV serves secrets from memory
type fakeKV map[string]map[string]any

func (f fakeKV) Get(_ context.Context, path string) (*api.KVSecret, error) {
	data, ok := f[path]
	if !ok {
		return nil, fmt.Errorf("%w: at %s", api.ErrSecretNotFound, path)
	}
	return &api.KVSecret{Data: data}, nil
}

// newFakeVault serves the health endpoint and KV v2 reads under the "secret" mount
func newFakeVault(t *testing.T, secrets map[string]map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v1/sys/health" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"initialized": true, "sealed": false, "standby": false,
				"version": "1.15.0", "cluster_name": "test",
			})
			return
		}
		data, ok := secrets[strings.TrimPrefix(r.URL.Path, "/v1/secret/data/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"data":     data,
				"metadata": map[string]any{"version": 3},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolveVaultToken(t *testing.T) {
	t.Run("token from config", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token", TokenFile: "/ignored"})
		require.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token from file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "vault-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token  \n"), 0600))

		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile})
		require.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("missing token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token/file"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read vault token file")
	})

	t.Run("no token provided", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "vault token is required")
	})
}

func TestApplySecrets(t *testing.T) {
	kv := fakeKV{
		"resumematch/ai":     {"api_key": "  vault-gemini-key-123 ", "token": "custom-field"},
		"resumematch/server": {"keys": "alpha, beta,, "},
		"resumematch/empty":  {"api_key": ""},
		"resumematch/number": {"api_key": 42},
	}

	tests := []struct {
		name        string
		secrets     VaultSecrets
		wantAIKey   string
		wantAPIKeys []string
		wantErr     string
	}{
		{
			name:        "both secrets",
			secrets:     VaultSecrets{AIKey: "resumematch/ai", APIKeys: "resumematch/server"},
			wantAIKey:   "vault-gemini-key-123",
			wantAPIKeys: []string{"alpha", "beta"},
		},
		{
			name:        "custom field",
			secrets:     VaultSecrets{AIKey: "resumematch/ai", AIKeyField: "token"},
			wantAIKey:   "custom-field",
			wantAPIKeys: []string{"configured"},
		},
		{
			name:        "empty key keeps configured value",
			secrets:     VaultSecrets{AIKey: "resumematch/empty"},
			wantAIKey:   "from-env",
			wantAPIKeys: []string{"configured"},
		},
		{
			name:    "missing secret",
			secrets: VaultSecrets{AIKey: "resumematch/missing"},
			wantErr: "failed to load AI API key",
		},
		{
			name:    "missing field",
			secrets: VaultSecrets{APIKeys: "resumematch/ai"},
			wantErr: `field "keys" not found`,
		},
		{
			name:    "non string field",
			secrets: VaultSecrets{AIKey: "resumematch/number"},
			wantErr: "not a string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				AI:     AIConfig{APIKey: "from-env"},
				Server: ServerConfig{APIKeys: []string{"configured"}},
				Vault:  VaultConfig{Secrets: tt.secrets},
			}

			err := applySecrets(context.Background(), kv, cfg, newTestLogger())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAIKey, cfg.AI.APIKey)
			assert.Equal(t, tt.wantAPIKeys, cfg.Server.APIKeys)
		})
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{AI: AIConfig{APIKey: "from-env"}}
	require.NoError(t, ApplyVaultSecrets(cfg, newTestLogger()))
	assert.Equal(t, "from-env", cfg.AI.APIKey)
}

func TestApplyVaultSecretsLoadsKeys(t *testing.T) {
	vault := newFakeVault(t, map[string]map[string]any{
		"resumematch/ai":     {"api_key": "vault-gemini-key-123"},
		"resumematch/server": {"keys": "alpha, beta"},
	})

	cfg := &Config{
		AI: AIConfig{APIKey: "from-env"},
		Vault: VaultConfig{
			Enabled: true,
			Address: vault.URL,
			Token:   "root",
			Secrets: VaultSecrets{
				AIKey:   "resumematch/ai",
				APIKeys: "resumematch/server",
			},
		},
	}

	require.NoError(t, ApplyVaultSecrets(cfg, newTestLogger()))
	assert.Equal(t, "vault-gemini-key-123", cfg.AI.APIKey)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Server.APIKeys)
}

func TestApplyVaultSecretsMissingSecret(t *testing.T) {
	vault := newFakeVault(t, nil)

	cfg := &Config{Vault: VaultConfig{
		Enabled: true,
		Address: vault.URL,
		Token:   "root",
		Secrets: VaultSecrets{AIKey: "missing"},
	}}

	err := ApplyVaultSecrets(cfg, newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load AI API key")
}

func TestApplyVaultSecretsRequiresToken(t *testing.T) {
	vault := newFakeVault(t, nil)

	cfg := &Config{Vault: VaultConfig{Enabled: true, Address: vault.URL}}
	err := ApplyVaultSecrets(cfg, newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault token is required")
}
