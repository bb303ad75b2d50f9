package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct", NewExtractionError(ErrCodePDFUnreadable, "bad pdf", nil), KindExtractionFailure},
		{"wrapped", fmt.Errorf("upload: %w", NewInvalidDocumentError(ErrCodeDocumentTooShort, "short", nil)), KindInvalidDocument},
		{"plain", fmt.Errorf("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	err := fmt.Errorf("ctx: %w", NewNetworkError(ErrCodeUpstreamStatus, "analysis service unavailable", nil))
	assert.Equal(t, "analysis service unavailable", UserMessage(err))
	assert.Contains(t, UserMessage(fmt.Errorf("raw")), "unexpected error")
}

func TestAppErrorUnwrapAndContext(t *testing.T) {
	cause := fmt.Errorf("eof")
	err := NewParseError(ErrCodeNoAnalysisContent, "no content", cause).WithContext("length", 0)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 0, err.Context["length"])
	assert.Contains(t, err.Error(), "caused by: eof")
}

func TestLogErrorIncludesKind(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, slog.LevelDebug)

	logger.LogError(NewConfigError(ErrCodeInvalidConfig, "bad port", nil).WithContext("port", -1), "config failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "config", entry["error_kind"])
	assert.Equal(t, ErrCodeInvalidConfig, entry["error_code"])
	assert.EqualValues(t, -1, entry["port"])
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("verbose")
	require.Error(t, err)

	logger, err := New("warn")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
