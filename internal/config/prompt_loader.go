package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadedPrompts holds prompt templates read from the files named in PromptConfig
type LoadedPrompts struct {
	System     string
	Structured string
	Legacy     string
}

// Count returns how many prompts were loaded from files
func (lp LoadedPrompts) Count() int {
	count := 0
	for _, content := range []string{lp.System, lp.Structured, lp.Legacy} {
		if content != "" {
			count++
		}
	}
	return count
}

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	prompts := c.AI.Prompts
	targets := []struct {
		path   string
		name   string
		target *string
	}{
		{prompts.SystemFile, "system", &c.AI.Loaded.System},
		{prompts.StructuredFile, "structured", &c.AI.Loaded.Structured},
		{prompts.LegacyFile, "legacy", &c.AI.Loaded.Legacy},
	}

	for _, t := range targets {
		if t.path == "" {
			continue
		}
		content, err := loadPromptFromFile(t.path, t.name)
		if err != nil {
			return err
		}
		*t.target = content
		c.Sources.PromptFiles = append(c.Sources.PromptFiles, t.path)
	}
	return nil
}

// loadPromptFromFile reads a prompt file and rejects blank ones
func loadPromptFromFile(filePath, name string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", name, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s prompt file not found: %s", name, absPath)
		}
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", name, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", name, absPath)
	}

	return trimmedContent, nil
}
