package extract

import (
	"bytes"
	"mime"
	"strings"

	"resumematch/internal/errors"
	"resumematch/internal/types"
)

// PDFContentType is the only accepted upload type
const PDFContentType = "application/pdf"

var pdfMagic = []byte("%PDF-")

// CheckUploads accepts exactly one PDF upload and returns it.
// Every rejection happens before any extraction is attempted.
func CheckUploads(uploads []types.Upload) (*types.Upload, error) {
	if len(uploads) != 1 {
		return nil, errors.NewValidationError(errors.ErrCodeUploadRejected,
			"Please upload a single file.", nil).WithContext("files", len(uploads))
	}

	up := uploads[0]
	if !isPDFType(up.ContentType) {
		return nil, errors.NewValidationError(errors.ErrCodeUploadRejected,
			"Please upload a single PDF file.", nil).WithContext("content_type", up.ContentType)
	}

	if len(up.Data) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeUploadRejected,
			"The PDF wasn't uploaded correctly.", nil)
	}

	if !bytes.HasPrefix(up.Data, pdfMagic) {
		return nil, errors.NewValidationError(errors.ErrCodeUploadRejected,
			"Please upload a single PDF file.", nil).WithContext("file", up.Name)
	}

	return &up, nil
}

func isPDFType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, PDFContentType)
}
