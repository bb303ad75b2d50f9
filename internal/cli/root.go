package cli

import (
	"context"
	"fmt"

	"resumematch/internal/config"
	"resumematch/internal/errors"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

// skipConfigAnnotation marks commands that run without loading configuration
const skipConfigAnnotation = "resumematch/skip-config"

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "resumematch",
	Short: "Match a resume to a career with an AI analysis",
	Long: `resumematch checks that a PDF is a resume, sends its text to a language model
and turns the reply into a career analysis: match percentages, skill gaps,
job market, salary ranges and an action plan.

It runs the pipeline locally or against a resumematch server, and can serve
the same pipeline over HTTP.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadRuntime,
}

// Execute runs the root command with ctx as the parent of every command context
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadRuntime loads configuration and the logger and attaches them to the command context
func loadRuntime(cmd *cobra.Command, args []string) error {
	if !needsConfig(cmd) {
		return nil
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return fmt.Errorf("failed to load secrets from vault: %w", err)
	}
	cfg.LogSummary(logger)

	logger.Debug("Starting resumematch",
		"version", Version,
		"command", cmd.Name(),
		"log_level", cfg.App.LogLevel,
		"ai_provider", cfg.AI.Provider,
		"dialect", cfg.AI.Dialect)

	ctx := context.WithValue(cmd.Context(), configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	cmd.SetContext(ctx)
	return nil
}

// needsConfig reports whether cmd runs the application, as opposed to
// printing build information or shell completions
func needsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigAnnotation] == "true" || c.Name() == "completion" {
			return false
		}
	}
	return true
}

// getConfigFromContext returns the configuration loaded for this command
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, errors.NewInternalError(errors.ErrCodeInvalidConfig, "configuration not loaded", nil)
}

// getLoggerFromContext returns the logger created for this command
func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger, nil
	}
	return nil, errors.NewInternalError(errors.ErrCodeInvalidConfig, "logger not initialized", nil)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./config.yaml, $HOME/.resumematch/config.yaml or /etc/resumematch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
