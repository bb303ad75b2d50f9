package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOutputFormat(t *testing.T) {
	configured := []string{"json", "text", "markdown"}

	tests := []struct {
		name             string
		format           string
		supportedFormats []string
		expectedError    string
	}{
		{name: "json", format: "json", supportedFormats: configured},
		{name: "text", format: "text", supportedFormats: configured},
		{name: "markdown", format: "markdown", supportedFormats: configured},
		{name: "no configured restriction", format: "markdown", supportedFormats: nil},
		{
			name:             "unknown to the registry",
			format:           "xml",
			supportedFormats: configured,
			expectedError:    "unsupported output format 'xml'. Supported formats: [json markdown text]",
		},
		{
			name:             "unknown even without restriction",
			format:           "yaml",
			supportedFormats: nil,
			expectedError:    "unsupported output format 'yaml'. Supported formats: [json markdown text]",
		},
		{
			name:             "case sensitive",
			format:           "JSON",
			supportedFormats: configured,
			expectedError:    "unsupported output format 'JSON'. Supported formats: [json markdown text]",
		},
		{
			name:             "disabled by configuration",
			format:           "text",
			supportedFormats: []string{"json"},
			expectedError:    "unsupported output format 'text'. Supported formats: [json]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supportedFormats)
			if tt.expectedError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.expectedError, err.Error())
		})
	}
}

func TestResolveOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		defaultFmt string
		want       string
		wantErr    bool
	}{
		{name: "flag wins", flag: "json", defaultFmt: "markdown", want: "json"},
		{name: "configured default", defaultFmt: "markdown", want: "markdown"},
		{name: "built in default", want: "text"},
		{name: "bad flag", flag: "pdf", defaultFmt: "text", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveOutputFormat(tt.flag, tt.defaultFmt, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetSupportedFormats(t *testing.T) {
	tests := []struct {
		name             string
		supportedFormats []string
		expected         []string
	}{
		{"configured formats", []string{"json", "text", "markdown"}, []string{"json", "text", "markdown"}},
		{"single format", []string{"json"}, []string{"json"}},
		{"no configuration", nil, []string{"json", "markdown", "text"}},
		{"unknown formats dropped", []string{"xml", "json", "csv"}, []string{"json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetSupportedFormats(tt.supportedFormats))
		})
	}
}

func BenchmarkValidateOutputFormat(b *testing.B) {
	supportedFormats := []string{"json", "text", "markdown"}

	b.Run("valid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("json", supportedFormats)
		}
	})

	b.Run("invalid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("xml", supportedFormats)
		}
	})
}
