// Package extract pulls plain text out of uploaded documents.
package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
	"resumematch/internal/errors"
)

// Extractor turns a document into plain text
type Extractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// PDFExtractor extracts the text of the first page of a PDF.
// Later pages are never read.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF extractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText returns the plain text of page 1, one line per text object
func (e *PDFExtractor) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// the pdf reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = errors.NewExtractionError(errors.ErrCodePDFUnreadable,
				"Failed to load PDF document. Please ensure the file is not corrupted.",
				fmt.Errorf("pdf reader panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewExtractionError(errors.ErrCodePDFUnreadable,
			"Failed to load PDF document. The file might be corrupted or password-protected.", err)
	}

	if reader.NumPage() < 1 {
		return "", errors.NewExtractionError(errors.ErrCodePDFUnreadable,
			"Failed to process PDF page. The document has no pages.", nil)
	}

	page := reader.Page(1)
	if page.V.IsNull() {
		return "", errors.NewExtractionError(errors.ErrCodePDFUnreadable,
			"Failed to process PDF page. The document might be corrupted.", nil)
	}

	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", errors.NewExtractionError(errors.ErrCodePDFUnreadable,
			"Failed to extract text from PDF. The document might be corrupted or password-protected.", err)
	}

	return text, nil
}
