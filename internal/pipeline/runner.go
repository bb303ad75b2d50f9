package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"resumematch/internal/ai"
	"resumematch/internal/cache"
	"resumematch/internal/errors"
	"resumematch/internal/extract"
	"resumematch/internal/observability"
	"resumematch/internal/parser"
	"resumematch/internal/types"
	"resumematch/internal/validator"
)

// Analyzer turns a resume prompt into a raw model response.
// The AI service implements it directly and the matcher client over HTTP.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

// Outcome is everything a successful run produced
type Outcome struct {
	Text     string
	Verdict  validator.Verdict
	Response string
	Result   parser.ParseResult
	Cached   bool
}

// Runner executes the upload → extract → validate → analyze → parse steps.
// It holds no per-run state and may be shared between goroutines.
type Runner struct {
	extractor extract.Extractor
	validator *validator.Validator
	analyzer  Analyzer
	parser    *parser.Parser
	cache     cache.Cache
	metrics   *observability.Metrics
	logger    *errors.Logger
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithCache stores parsed analyses by resume text
func WithCache(c cache.Cache) RunnerOption {
	return func(r *Runner) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithMetrics records verdicts, dialects and model latency
func WithMetrics(m *observability.Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner creates a runner from its collaborators
func NewRunner(extractor extract.Extractor, v *validator.Validator, analyzer Analyzer, p *parser.Parser, logger *errors.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		extractor: extractor,
		validator: v,
		analyzer:  analyzer,
		parser:    p,
		cache:     cache.NopCache{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes uploads and reports progress through emit, which may be nil.
// Failures are returned as AppErrors of the kind the failing step owns.
func (r *Runner) Run(ctx context.Context, uploads []types.Upload, emit func(Event)) (*Outcome, error) {
	if emit == nil {
		emit = func(Event) {}
	}
	emit(UploadStarted())

	upload, err := extract.CheckUploads(uploads)
	if err != nil {
		emit(UploadRejected(errors.UserMessage(err)))
		return nil, err
	}

	text, err := r.extractor.ExtractText(ctx, upload.Data)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		emit(ExtractionFailed(errors.UserMessage(err)))
		return nil, err
	}
	emit(TextExtracted())

	return r.analyzeText(ctx, text, emit)
}

// RunText processes already extracted text, skipping the upload and extraction steps
func (r *Runner) RunText(ctx context.Context, text string, emit func(Event)) (*Outcome, error) {
	if emit == nil {
		emit = func(Event) {}
	}
	emit(UploadStarted())
	emit(TextExtracted())
	return r.analyzeText(ctx, text, emit)
}

func (r *Runner) analyzeText(ctx context.Context, text string, emit func(Event)) (*Outcome, error) {
	verdict := r.validator.Validate(text)
	r.metrics.RecordVerdict(ctx, string(verdict.Reason), verdict.IsValid)
	if !verdict.IsValid {
		emit(DocumentRejected(verdict))
		return nil, errors.NewInvalidDocumentError(documentErrorCode(verdict.Reason), verdict.Message(), nil).
			WithContext("reason", string(verdict.Reason))
	}
	emit(DocumentAccepted())

	outcome := &Outcome{Text: text, Verdict: verdict}
	key := cache.Key(text)

	if entry := r.lookup(ctx, key); entry != nil {
		outcome.Cached = true
		outcome.Result = parser.ParseResult{Dialect: parser.Dialect(entry.Dialect), Record: entry.Record}
		emit(AnalysisReceived(entry.Record))
		return outcome, nil
	}

	start := time.Now()
	response, err := r.analyzer.Analyze(ctx, ai.FormatResumePrompt(text))
	r.metrics.RecordAIRequest(ctx, "analyze", time.Since(start), err)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		netErr := asNetworkError(err)
		emit(AnalysisFailed(errors.KindNetworkFailure, errors.UserMessage(netErr)))
		return nil, netErr
	}
	outcome.Response = response

	result := r.parser.Parse(response)
	outcome.Result = result
	r.metrics.RecordAnalysisParsed(ctx, string(result.Dialect))

	if result.Failed() {
		parseErr := errors.NewParseError(errors.ErrCodeNoAnalysisContent,
			"The analysis could not be read. Please try again.", stderrors.New(result.Reason))
		emit(AnalysisFailed(errors.KindAnalysisParseFailure, parseErr.Message))
		return outcome, parseErr
	}

	r.store(ctx, key, result)
	emit(AnalysisReceived(result.Record))
	return outcome, nil
}

func (r *Runner) lookup(ctx context.Context, key string) *cache.Entry {
	entry, err := r.cache.GetRecord(ctx, key)
	if err != nil {
		r.logger.Warn("Analysis cache lookup failed", "error", err.Error())
		return nil
	}
	r.metrics.RecordCacheLookup(ctx, entry != nil)
	return entry
}

func (r *Runner) store(ctx context.Context, key string, result parser.ParseResult) {
	entry := &cache.Entry{Dialect: string(result.Dialect), Record: result.Record}
	if err := r.cache.SetRecord(ctx, key, entry); err != nil {
		r.logger.Warn("Analysis cache store failed", "error", err.Error())
	}
}

// asNetworkError keeps typed errors and classifies anything else as a network failure
func asNetworkError(err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		if appErr.Kind == errors.KindNetworkFailure {
			return appErr
		}
		// A missing key on the far side reaches the user as a network failure
		return errors.NewNetworkError(appErr.Code, appErr.Message, appErr)
	}
	return errors.NewNetworkError(errors.ErrCodeAIServiceFailed,
		"The analysis service could not be reached. Please try again.", err)
}

func documentErrorCode(reason validator.Reason) string {
	switch reason {
	case validator.ReasonEmpty:
		return errors.ErrCodeEmptyDocument
	case validator.ReasonTooShort:
		return errors.ErrCodeDocumentTooShort
	case validator.ReasonMissingSections:
		return errors.ErrCodeMissingSections
	case validator.ReasonInsufficientContent:
		return errors.ErrCodeInsufficientText
	default:
		return errors.ErrCodeNotAResume
	}
}
