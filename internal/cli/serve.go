package cli

import (
	"fmt"

	"resumematch/internal/ai"
	"resumematch/internal/config"
	"resumematch/internal/extract"
	"resumematch/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server that exposes the resume pipeline.

Available endpoints:
- POST /api/matcher: Stream the model's reply to a resume prompt
- POST /api/analyze: Upload a resume PDF and receive the parsed analysis
- POST /api/validate: Check whether a PDF or text is a resume
- GET /api/health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

type serveOptions struct {
	Port     string
	Host     string
	TLSMode  string
	CertFile string
	KeyFile  string
	CAFile   string
}

var serveConfig serveOptions

func init() {
	serveCmd.Flags().StringVarP(&serveConfig.Port, "port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveConfig.Host, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&serveConfig.TLSMode, "tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().StringVar(&serveConfig.CertFile, "cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().StringVar(&serveConfig.KeyFile, "key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().StringVar(&serveConfig.CAFile, "ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
}

// applyServeOverrides copies the flags that were set onto the server configuration
func applyServeOverrides(cmd *cobra.Command, cfg *config.ServerConfig, opts serveOptions) {
	flags := cmd.Flags()
	for name, apply := range map[string]func(){
		"port":      func() { cfg.Port = opts.Port },
		"host":      func() { cfg.Host = opts.Host },
		"tls-mode":  func() { cfg.TLS.Mode = opts.TLSMode },
		"cert-file": func() { cfg.TLS.CertFile = opts.CertFile },
		"key-file":  func() { cfg.TLS.KeyFile = opts.KeyFile },
		"ca-file":   func() { cfg.TLS.CAFile = opts.CAFile },
	} {
		if flags.Changed(name) {
			apply()
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	applyServeOverrides(cmd, &cfg.Server, serveConfig)

	// Validate TLS configuration after applying overrides
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	aiService, err := ai.NewService(&cfg.AI, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() {
		if err := aiService.Close(); err != nil {
			logger.Warn("Failed to close AI service", "error", err)
		}
	}()

	v, err := newValidator(cfg, logger)
	if err != nil {
		return err
	}

	deps := server.Dependencies{
		AI:        aiService,
		Validator: v,
		Extractor: extract.NewPDFExtractor(),
		Parser:    newParser(cfg),
	}
	return server.NewServer(cfg, server.NewServerConfig(cfg, Version), deps, logger).Start(cmd.Context())
}
