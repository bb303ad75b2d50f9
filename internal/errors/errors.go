package errors

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Kind classifies an error for the user-facing error view and HTTP status mapping
type Kind string

const (
	KindInvalidDocument      Kind = "invalid_document"
	KindExtractionFailure    Kind = "extraction_failure"
	KindNetworkFailure       Kind = "network_failure"
	KindAnalysisParseFailure Kind = "analysis_parse_failure"
	KindValidation           Kind = "validation"
	KindConfig               Kind = "config"
	KindInternal             Kind = "internal"
)

// Title returns the heading shown for the kind in the error view.
func (k Kind) Title() string {
	switch k {
	case KindInvalidDocument:
		return "Invalid document"
	case KindExtractionFailure:
		return "Could not read document"
	case KindNetworkFailure:
		return "Connection problem"
	case KindAnalysisParseFailure:
		return "Could not read the analysis"
	case KindValidation:
		return "Invalid request"
	case KindConfig:
		return "Configuration error"
	default:
		return "Something went wrong"
	}
}

// AppError represents a structured application error
type AppError struct {
	Kind    Kind           `json:"kind"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func newAppError(kind Kind, code, message string, cause error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Error constructors for different kinds
func NewInvalidDocumentError(code, message string, cause error) *AppError {
	return newAppError(KindInvalidDocument, code, message, cause)
}

func NewExtractionError(code, message string, cause error) *AppError {
	return newAppError(KindExtractionFailure, code, message, cause)
}

func NewNetworkError(code, message string, cause error) *AppError {
	return newAppError(KindNetworkFailure, code, message, cause)
}

func NewParseError(code, message string, cause error) *AppError {
	return newAppError(KindAnalysisParseFailure, code, message, cause)
}

func NewValidationError(code, message string, cause error) *AppError {
	return newAppError(KindValidation, code, message, cause)
}

func NewConfigError(code, message string, cause error) *AppError {
	return newAppError(KindConfig, code, message, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(KindInternal, code, message, cause)
}

// NewKindError builds an error of an arbitrary kind, for callers that carry
// the kind as data
func NewKindError(kind Kind, code, message string, cause error) *AppError {
	return newAppError(kind, code, message, cause)
}

// WithContext adds context to an error
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// UserMessage returns the message of the first AppError in err's chain.
// Errors without one get a generic message so internals never leak to users.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "An unexpected error occurred. Please try again."
}

// Logger wraps slog with application-specific methods
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a new structured logger writing JSON to stderr
func NewLogger(level slog.Level) *Logger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo creates a structured logger writing JSON to w
func NewLoggerTo(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{logger: slog.New(handler)}
}

// LogError logs an application error with appropriate level and context
func (l *Logger) LogError(err error, message string, args ...any) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		logArgs := []any{
			"error_kind", appErr.Kind,
			"error_code", appErr.Code,
			"error_message", appErr.Message,
		}
		if appErr.Cause != nil {
			logArgs = append(logArgs, "cause", appErr.Cause.Error())
		}

		for key, value := range appErr.Context {
			logArgs = append(logArgs, key, value)
		}

		logArgs = append(logArgs, args...)

		l.logger.Error(message, logArgs...)
		return
	}

	logArgs := append([]any{"error", err.Error()}, args...)
	l.logger.Error(message, logArgs...)
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}

// With returns a logger that adds args to every record
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}

// New creates a new logger instance
func New(level string) (*Logger, error) {
	slogLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return NewLogger(slogLevel), nil
}

// ParseLevel maps a configured level name to a slog level
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// Common error codes
const (
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable   = "FILE_NOT_READABLE"
	ErrCodeInvalidFormat     = "INVALID_FORMAT"
	ErrCodeUploadRejected    = "UPLOAD_REJECTED"
	ErrCodeEmptyDocument     = "EMPTY_DOCUMENT"
	ErrCodeNotAResume        = "NOT_A_RESUME"
	ErrCodeDocumentTooShort  = "DOCUMENT_TOO_SHORT"
	ErrCodeMissingSections   = "MISSING_SECTIONS"
	ErrCodeInsufficientText  = "INSUFFICIENT_CONTENT"
	ErrCodePDFUnreadable     = "PDF_UNREADABLE"
	ErrCodeAIServiceFailed   = "AI_SERVICE_FAILED"
	ErrCodeAITimeout         = "AI_TIMEOUT"
	ErrCodeUpstreamStatus    = "UPSTREAM_STATUS"
	ErrCodeStreamInterrupted = "STREAM_INTERRUPTED"
	ErrCodeNoAnalysisContent = "NO_ANALYSIS_CONTENT"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeMissingAPIKey     = "MISSING_API_KEY"
	ErrCodeNetworkTimeout    = "NETWORK_TIMEOUT"
	ErrCodeInvalidConfig     = "INVALID_CONFIG"
)
