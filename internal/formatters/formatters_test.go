package formatters

import (
	"encoding/json"
	"testing"
	"time"

	"resumematch/internal/ai"
	"resumematch/internal/types"
	"resumematch/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount   int
		currency string
		want     string
	}{
		{28000, "GBP", "£28,000"},
		{45000, "USD", "$45,000"},
		{1250000, "EUR", "€1,250,000"},
		{999, "GBP", "£999"},
		{0, "", "£0"},
		{60000, "CHF", "CHF60,000"},
		{-1500, "GBP", "-£1,500"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.amount, tt.currency))
		})
	}
}

func TestTrendEmoji(t *testing.T) {
	assert.Equal(t, "📈", TrendEmoji("Growing"))
	assert.Equal(t, "📊", TrendEmoji("Stable"))
	assert.Equal(t, "📉", TrendEmoji("Declining"))
	assert.Equal(t, "📊", TrendEmoji(""))
}

func TestGetSupportedFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "markdown", "text"}, NewFormatterRegistry().GetSupportedFormats())
}

func TestFormatAnalysisRecord(t *testing.T) {
	registry := NewFormatterRegistry()
	rec := ai.DemoAnalysis(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))

	tests := []struct {
		format string
		want   []string
	}{
		{"text", []string{"Suggested career: Frontend Developer", "Match: 78%", "£28,000", "£65,000", "📈 Growing", "=== SKILL GAPS ==="}},
		{"markdown", []string{"# Career Match: Frontend Developer", "| 78% |", "| £28,000 | £45,000 | £65,000 |", "## Skill Gaps"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := registry.Format(rec, tt.format)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}

	t.Run("json", func(t *testing.T) {
		out, err := registry.Format(rec, "json")
		require.NoError(t, err)

		var decoded types.AnalysisRecord
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "Frontend Developer", decoded.SuggestedCareer)
	})

	t.Run("value record", func(t *testing.T) {
		out, err := registry.Format(*rec, "text")
		require.NoError(t, err)
		assert.Contains(t, out, "Frontend Developer")
	})
}

func TestFormatVerdicts(t *testing.T) {
	registry := NewFormatterRegistry()
	report := VerdictReport{
		{File: "cv.pdf", Verdict: validator.Verdict{IsValid: true}},
		{File: "invoice.pdf", Verdict: validator.Verdict{Reason: validator.ReasonNonResume, Detail: "invoice"}},
		{File: "broken.pdf", Error: "Could not read text from the PDF."},
	}

	text, err := registry.Format(report, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "cv.pdf: VALID resume")
	assert.Contains(t, text, "invoice.pdf: REJECTED (non_resume_content) - This document appears to be a invoice document")
	assert.Contains(t, text, "broken.pdf: ERROR - Could not read text from the PDF.")

	md, err := registry.Format(report, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "| cv.pdf | ✅ Valid | |")
	assert.Contains(t, md, "| invoice.pdf | ❌ non_resume_content |")

	assert.Equal(t, []string{"invoice.pdf", "broken.pdf"}, report.Rejected())

	single, err := registry.Format(validator.Verdict{Reason: validator.ReasonTooShort}, "text")
	require.NoError(t, err)
	assert.Contains(t, single, "REJECTED (too_short)")
}

func TestFormatUnknownFormat(t *testing.T) {
	_, err := NewFormatterRegistry().Format(&types.AnalysisRecord{}, "yaml")
	assert.Error(t, err)
}

func TestFormatterRejectsWrongType(t *testing.T) {
	_, err := (&AnalysisTextFormatter{}).Format("nope")
	assert.Error(t, err)
	_, err = (&VerdictMarkdownFormatter{}).Format(42)
	assert.Error(t, err)
}
