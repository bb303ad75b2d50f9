package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resumematch/internal/ai"
	"resumematch/internal/cache"
	"resumematch/internal/client"
	"resumematch/internal/common"
	"resumematch/internal/config"
	"resumematch/internal/errors"
	"resumematch/internal/extract"
	"resumematch/internal/pipeline"
	"resumematch/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume.pdf]",
	Short: "Analyze a resume and suggest a matching career",
	Long: `Analyze a resume PDF: check that it is a resume, send the text of its first
page to the language model and print the parsed career analysis.

The analysis includes:
- Suggested career and match percentages
- Strengths and skill gaps
- Job market and salary predictions
- Resume feedback and an action plan

By default the configured AI provider is called directly. With --server the
analysis is requested from a running resumematch server instead.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: resolveFormat(&analyzeConfig.CommandConfig),
	RunE:    runAnalyze,
}

type analyzeOptions struct {
	common.CommandConfig
	ServerURL string
	ServerKey string
	Timeout   time.Duration
	PlainText bool
	NoCache   bool
}

var analyzeConfig analyzeOptions

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVar(&analyzeConfig.ServerURL, "server", "", "Base URL of a resumematch server to analyze with")
	analyzeCmd.Flags().StringVar(&analyzeConfig.ServerKey, "server-key", "", "API key for --server (default: first configured server.api_keys entry)")
	analyzeCmd.Flags().DurationVar(&analyzeConfig.Timeout, "timeout", client.DefaultTimeout, "Timeout for a --server analysis")
	analyzeCmd.Flags().BoolVar(&analyzeConfig.PlainText, "text", false, "Treat the input as already extracted resume text instead of a PDF")
	analyzeCmd.Flags().BoolVar(&analyzeConfig.NoCache, "no-cache", false, "Skip the analysis cache even when it is enabled")

	registerFormatCompletion(analyzeCmd)
}

// resolveFormat applies the configured default output format and validates it
func resolveFormat(cmdConfig *common.CommandConfig) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		format, err := common.ResolveOutputFormat(cmdConfig.OutputFormat, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
		if err != nil {
			return err
		}
		cmdConfig.OutputFormat = format
		cmdConfig.Stdout = cmd.OutOrStdout()
		return nil
	}
}

func registerFormatCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return common.GetSupportedFormats(nil), cobra.ShellCompDirectiveNoFileComp
		}
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

// analyzeInput is a resume read from disk
type analyzeInput struct {
	Upload types.Upload
	Text   string
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	analyzer, closeAnalyzer, err := newAnalyzer(cfg, analyzeConfig, logger)
	if err != nil {
		return err
	}
	defer closeAnalyzer()

	v, err := newValidator(cfg, logger)
	if err != nil {
		return err
	}

	opts := []pipeline.RunnerOption{}
	if !analyzeConfig.NoCache {
		resultCache, err := cache.New(cmd.Context(), cfg.Cache, logger)
		if err != nil {
			// The analysis still works without a cache
			logger.LogError(err, "Analysis cache unavailable, continuing without it")
		} else {
			defer func() { _ = resultCache.Close() }()
			opts = append(opts, pipeline.WithCache(resultCache))
		}
	}

	runner := pipeline.NewRunner(extract.NewPDFExtractor(), v, analyzer, newParser(cfg), logger, opts...)

	createInput := func(fp *common.FileProcessor, args []string) (analyzeInput, error) {
		if analyzeConfig.PlainText {
			text, err := fp.ReadFile(args[0])
			return analyzeInput{Text: text}, err
		}
		upload, err := fp.ReadUpload(args[0])
		return analyzeInput{Upload: upload}, err
	}

	logDetails := func(input analyzeInput, cmdConfig common.CommandConfig) {
		logger.Info("Starting resume analysis",
			"file", args[0],
			"remote", analyzeConfig.ServerURL != "",
			"output_format", cmdConfig.OutputFormat)
	}

	session := pipeline.NewSession(runner, func(runID string, state pipeline.State) {
		logger.Debug("Analysis state changed", "run_id", runID, "phase", state.Phase)
	})
	defer session.Close()

	analyzeOperation := func(ctx context.Context, input analyzeInput) (*types.AnalysisRecord, error) {
		var state pipeline.State
		var err error
		if analyzeConfig.PlainText {
			state, err = session.RunText(ctx, input.Text)
		} else {
			state, err = session.Run(ctx, []types.Upload{input.Upload})
		}
		if err != nil {
			return nil, err
		}
		if err := state.Err(); err != nil {
			return nil, err
		}
		if state.Record == nil {
			return nil, errors.NewInternalError("ANALYSIS_INCOMPLETE", "analysis ended without a result", nil)
		}

		logger.Info("Analysis ready", "suggested_career", state.Record.SuggestedCareer)
		return state.Record, nil
	}

	err = common.RunFileCommand(cmd.Context(), logger, analyzeConfig.CommandConfig, args,
		createInput, analyzeOperation, logDetails)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}

// newAnalyzer returns the remote matcher client when a server URL is given and
// the configured AI provider otherwise, together with its cleanup
func newAnalyzer(cfg *config.Config, opts analyzeOptions, logger *errors.Logger) (pipeline.Analyzer, func(), error) {
	if opts.ServerURL != "" {
		key := opts.ServerKey
		if key == "" && len(cfg.Server.APIKeys) > 0 {
			key = cfg.Server.APIKeys[0]
		}
		logger.Debug("Using remote analysis server", "url", strings.TrimRight(opts.ServerURL, "/"), "authenticated", key != "")
		return client.NewMatcherClient(opts.ServerURL, key, opts.Timeout), func() {}, nil
	}

	service, err := ai.NewService(&cfg.AI, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create AI service: %w", err)
	}
	if !service.HasKey() {
		logger.Warn("No AI API key configured; the analysis request will fail",
			"provider", cfg.AI.Provider)
	}
	return service, func() {
		if err := service.Close(); err != nil {
			logger.Warn("Failed to close AI service", "error", err)
		}
	}, nil
}
