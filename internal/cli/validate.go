package cli

import (
	"context"
	"fmt"
	"strings"

	"resumematch/internal/common"
	"resumematch/internal/errors"
	"resumematch/internal/extract"
	"resumematch/internal/formatters"
	"resumematch/internal/types"
	"resumematch/internal/validator"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Check whether documents are resumes",
	Long: `Check one or more documents with the resume validator without calling the
language model. PDFs are read like uploads (first page only); text files are
validated as they are.

Each file gets a verdict: valid, or rejected with a reason such as
non_resume_content, too_short, missing_sections or insufficient_content.
With --strict the command exits non-zero when any file is not a valid resume.`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: resolveFormat(&validateConfig.CommandConfig),
	RunE:    runValidate,
}

type validateOptions struct {
	common.CommandConfig
	Concurrency int
	Strict      bool
}

var validateConfig validateOptions

func init() {
	validateCmd.Flags().StringVarP(&validateConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	validateCmd.Flags().StringVar(&validateConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	validateCmd.Flags().IntVarP(&validateConfig.Concurrency, "concurrency", "j", 4, "Number of files checked at once")
	validateCmd.Flags().BoolVar(&validateConfig.Strict, "strict", false, "Exit with an error when any file is not a valid resume")

	registerFormatCompletion(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	v, err := newValidator(cfg, logger)
	if err != nil {
		return err
	}
	checker := &documentChecker{
		files:     common.NewFileProcessor(logger),
		extractor: extract.NewPDFExtractor(),
		validator: v,
	}

	createInput := func(_ *common.FileProcessor, args []string) ([]string, error) {
		return args, nil
	}

	logDetails := func(files []string, cmdConfig common.CommandConfig) {
		logger.Info("Validating documents",
			"files", len(files),
			"concurrency", validateConfig.Concurrency,
			"output_format", cmdConfig.OutputFormat)
	}

	var report formatters.VerdictReport
	validateOperation := func(ctx context.Context, files []string) (formatters.VerdictReport, error) {
		checked, err := checker.CheckAll(ctx, files, validateConfig.Concurrency)
		report = checked
		return checked, err
	}

	if err := common.RunFileCommand(cmd.Context(), logger, validateConfig.CommandConfig, args,
		createInput, validateOperation, logDetails); err != nil {
		return fmt.Errorf("failed to validate documents: %w", err)
	}

	if validateConfig.Strict {
		if rejected := report.Rejected(); len(rejected) > 0 {
			return errors.NewInvalidDocumentError(errors.ErrCodeNotAResume,
				fmt.Sprintf("%d of %d documents are not valid resumes: %s", len(rejected), len(report), strings.Join(rejected, ", ")), nil)
		}
	}
	return nil
}

// documentChecker produces a verdict for a local file
type documentChecker struct {
	files     *common.FileProcessor
	extractor extract.Extractor
	validator *validator.Validator
}

// CheckAll checks files concurrently and returns their verdicts in argument order.
// Per-file failures are reported in the verdict; only cancellation aborts the batch.
func (c *documentChecker) CheckAll(ctx context.Context, files []string, concurrency int) (formatters.VerdictReport, error) {
	report := make(formatters.VerdictReport, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report[i] = c.Check(ctx, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// Check returns the verdict for one file
func (c *documentChecker) Check(ctx context.Context, file string) formatters.FileVerdict {
	fv := formatters.FileVerdict{File: file}

	upload, err := c.files.ReadUpload(file)
	if err != nil {
		fv.Error = errors.UserMessage(err)
		return fv
	}

	text, err := c.documentText(ctx, upload)
	if err != nil {
		fv.Error = errors.UserMessage(err)
		return fv
	}

	fv.Verdict = c.validator.Validate(text)
	fv.Message = fv.Verdict.Message()
	return fv
}

// documentText extracts PDF uploads and passes text files through
func (c *documentChecker) documentText(ctx context.Context, upload types.Upload) (string, error) {
	if strings.HasPrefix(upload.ContentType, "text/") {
		return string(upload.Data), nil
	}
	pdf, err := extract.CheckUploads([]types.Upload{upload})
	if err != nil {
		return "", err
	}
	return c.extractor.ExtractText(ctx, pdf.Data)
}
