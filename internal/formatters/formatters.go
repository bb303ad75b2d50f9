package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"resumematch/internal/types"
	"resumematch/internal/validator"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FileVerdict is the verdict for one file of a validate batch
type FileVerdict struct {
	File    string            `json:"file"`
	Verdict validator.Verdict `json:"verdict"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// VerdictReport is the result of validating several files
type VerdictReport []FileVerdict

// Rejected returns the files that are not valid resumes, including those that could not be read
func (r VerdictReport) Rejected() []string {
	var files []string
	for _, fv := range r {
		if fv.Error != "" || !fv.Verdict.IsValid {
			files = append(files, fv.File)
		}
	}
	return files
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisRecord", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisRecord", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "VerdictReport", &VerdictTextFormatter{})
	registry.RegisterFormatter("markdown", "VerdictReport", &VerdictMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	data, dataType := normalize(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats in name order
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

// normalize maps the accepted shapes of each data type onto the one its formatters expect
func normalize(data any) (any, string) {
	switch d := data.(type) {
	case *types.AnalysisRecord:
		if d == nil {
			return data, "any"
		}
		return d, "AnalysisRecord"
	case types.AnalysisRecord:
		return &d, "AnalysisRecord"
	case validator.Verdict:
		return VerdictReport{{Verdict: d, Message: d.Message()}}, "VerdictReport"
	case VerdictReport:
		return d, "VerdictReport"
	case []FileVerdict:
		return VerdictReport(d), "VerdictReport"
	default:
		return data, "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// VerdictTextFormatter handles text formatting for validation verdicts
type VerdictTextFormatter struct{}

func (vtf *VerdictTextFormatter) Format(data any) (string, error) {
	report, ok := data.(VerdictReport)
	if !ok {
		return "", fmt.Errorf("expected VerdictReport, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== VALIDATION ===\n\n")
	for _, fv := range report {
		if fv.File != "" {
			fmt.Fprintf(&output, "%s: ", fv.File)
		}
		switch {
		case fv.Error != "":
			fmt.Fprintf(&output, "ERROR - %s\n", fv.Error)
		case fv.Verdict.IsValid:
			output.WriteString("VALID resume\n")
		default:
			fmt.Fprintf(&output, "REJECTED (%s) - %s\n", fv.Verdict.Reason, verdictMessage(fv))
		}
	}
	return output.String(), nil
}

func (vtf *VerdictTextFormatter) SupportedType() string {
	return "VerdictReport"
}

// VerdictMarkdownFormatter handles markdown formatting for validation verdicts
type VerdictMarkdownFormatter struct{}

func (vmf *VerdictMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(VerdictReport)
	if !ok {
		return "", fmt.Errorf("expected VerdictReport, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Validation\n\n")
	output.WriteString("| File | Result | Details |\n")
	output.WriteString("|------|--------|---------|\n")
	for _, fv := range report {
		file := fv.File
		if file == "" {
			file = "-"
		}
		switch {
		case fv.Error != "":
			fmt.Fprintf(&output, "| %s | ⚠️ Error | %s |\n", file, fv.Error)
		case fv.Verdict.IsValid:
			fmt.Fprintf(&output, "| %s | ✅ Valid | |\n", file)
		default:
			fmt.Fprintf(&output, "| %s | ❌ %s | %s |\n", file, fv.Verdict.Reason, verdictMessage(fv))
		}
	}
	return output.String(), nil
}

func (vmf *VerdictMarkdownFormatter) SupportedType() string {
	return "VerdictReport"
}

func verdictMessage(fv FileVerdict) string {
	if fv.Message != "" {
		return fv.Message
	}
	return fv.Verdict.Message()
}
