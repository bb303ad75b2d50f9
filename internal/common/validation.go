package common

import (
	"fmt"
	"slices"

	"resumematch/internal/formatters"
)

// ResolveOutputFormat returns the format a command should print in: the flag
// value, or the configured default when the flag is empty. The result must be
// both allowed by configuration and known to the formatter registry.
func ResolveOutputFormat(flagValue, defaultFormat string, supportedFormats []string) (string, error) {
	format := flagValue
	if format == "" {
		format = defaultFormat
	}
	if format == "" {
		format = "text"
	}
	if err := ValidateOutputFormat(format, supportedFormats); err != nil {
		return "", err
	}
	return format, nil
}

// ValidateOutputFormat validates format against configured supported formats.
// An empty list allows everything the formatter registry knows.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	known := formatters.NewFormatterRegistry().GetSupportedFormats()
	if !slices.Contains(known, format) {
		return fmt.Errorf("unsupported output format '%s'. Supported formats: %v", format, known)
	}
	if len(supportedFormats) == 0 || slices.Contains(supportedFormats, format) {
		return nil
	}
	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// GetSupportedFormats returns the configured formats the registry can produce
func GetSupportedFormats(supportedFormats []string) []string {
	known := formatters.NewFormatterRegistry().GetSupportedFormats()
	if len(supportedFormats) == 0 {
		return known
	}
	formats := make([]string, 0, len(supportedFormats))
	for _, f := range supportedFormats {
		if slices.Contains(known, f) {
			formats = append(formats, f)
		}
	}
	return formats
}
