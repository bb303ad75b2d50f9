package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"resumematch/internal/common"
	"resumematch/internal/errors"
	"resumematch/internal/parser"
	"resumematch/internal/types"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [response-file|-]",
	Short: "Parse a saved model response into a career analysis",
	Long: `Parse a raw language model response, read from a file or from standard input
with "-", into a career analysis without calling the model.

The structured dialect (a JSON object anywhere in the text) is tried first.
When it is missing or invalid, the legacy tag-delimited sections are read and
the match percentages are synthesized. Use --dialect to force one of them.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: resolveFormat(&parseConfig.CommandConfig),
	RunE:    runParse,
}

type parseOptions struct {
	common.CommandConfig
	Dialect string
}

var parseConfig parseOptions

func init() {
	parseCmd.Flags().StringVarP(&parseConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().StringVar(&parseConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	parseCmd.Flags().StringVar(&parseConfig.Dialect, "dialect", "auto", "Response dialect: auto, structured or legacy")

	registerFormatCompletion(parseCmd)
	_ = parseCmd.RegisterFlagCompletionFunc("dialect", cobra.FixedCompletions(
		[]string{"auto", string(parser.DialectStructured), string(parser.DialectLegacy)}, cobra.ShellCompDirectiveNoFileComp))
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	p := newParser(cfg)

	createInput := func(fp *common.FileProcessor, args []string) (string, error) {
		return fp.ReadFile(args[0])
	}

	logDetails := func(response string, cmdConfig common.CommandConfig) {
		logger.Info("Parsing model response",
			"response_chars", len(response),
			"dialect", parseConfig.Dialect,
			"output_format", cmdConfig.OutputFormat)
	}

	parseOperation := func(_ context.Context, response string) (*types.AnalysisRecord, error) {
		return parseResponse(p, response, parseConfig.Dialect, logger)
	}

	if err := common.RunFileCommand(cmd.Context(), logger, parseConfig.CommandConfig, args,
		createInput, parseOperation, logDetails); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// parseResponse parses response in the requested dialect
func parseResponse(p *parser.Parser, response, dialect string, logger *errors.Logger) (*types.AnalysisRecord, error) {
	switch dialect {
	case string(parser.DialectStructured):
		rec, err := p.ParseStructured(response)
		if err != nil {
			return nil, errors.NewParseError(errors.ErrCodeNoAnalysisContent,
				"The response does not contain a valid structured analysis.", err)
		}
		return rec, nil

	case string(parser.DialectLegacy):
		return p.ParseLegacy(response), nil

	case "auto", "":
		result := p.Parse(response)
		logger.Debug("Response parsed", "dialect", result.Dialect, "reason", result.Reason)
		if result.Failed() {
			return nil, errors.NewParseError(errors.ErrCodeNoAnalysisContent,
				"The response does not contain an analysis.", stderrors.New(result.Reason))
		}
		return result.Record, nil

	default:
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("Unknown dialect %q (must be auto, structured or legacy)", dialect), nil)
	}
}
