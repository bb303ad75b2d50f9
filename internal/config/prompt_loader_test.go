package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPromptsFromFiles(t *testing.T) {
	dir := t.TempDir()
	structuredFile := filepath.Join(dir, "structured.md")
	systemFile := filepath.Join(dir, "system.md")
	require.NoError(t, os.WriteFile(structuredFile, []byte("\n Analyse this resume: {{resume}}\n"), 0600))
	require.NoError(t, os.WriteFile(systemFile, []byte("You are a career coach."), 0600))

	cfg := &Config{AI: AIConfig{Prompts: PromptConfig{
		StructuredFile: structuredFile,
		SystemFile:     systemFile,
		Legacy:         "inline legacy",
	}}}

	require.NoError(t, cfg.loadPromptsFromFiles())
	assert.Equal(t, "Analyse this resume: {{resume}}", cfg.AI.Loaded.Structured)
	assert.Equal(t, "You are a career coach.", cfg.AI.Loaded.System)
	assert.Empty(t, cfg.AI.Loaded.Legacy, "inline prompts are not copied into loaded prompts")
	assert.Equal(t, 2, cfg.AI.Loaded.Count())
	assert.Equal(t, []string{systemFile, structuredFile}, cfg.Sources.PromptFiles)
}

func TestLoadPromptsFromFilesErrors(t *testing.T) {
	dir := t.TempDir()
	emptyFile := filepath.Join(dir, "empty.md")
	require.NoError(t, os.WriteFile(emptyFile, []byte("   \n"), 0600))

	tests := []struct {
		name    string
		prompts PromptConfig
		wantErr string
	}{
		{"missing file", PromptConfig{LegacyFile: filepath.Join(dir, "nope.md")}, "legacy prompt file not found"},
		{"empty file", PromptConfig{StructuredFile: emptyFile}, "is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{AI: AIConfig{Prompts: tt.prompts}}
			err := cfg.loadPromptsFromFiles()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
