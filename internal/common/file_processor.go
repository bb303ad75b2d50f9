package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"resumematch/internal/errors"
	"resumematch/internal/types"
	"resumematch/internal/utils"
)

// FileProcessor reads command inputs and writes command outputs
type FileProcessor struct {
	logger *errors.Logger
	stdin  io.Reader
}

// NewFileProcessor creates a new file processor instance
func NewFileProcessor(logger *errors.Logger) *FileProcessor {
	return &FileProcessor{logger: logger, stdin: os.Stdin}
}

// ReadBytes reads a whole file, or standard input for utils.StdinName
func (fp *FileProcessor) ReadBytes(filename string) ([]byte, error) {
	if err := utils.ValidateInputFile(filename); err != nil {
		if !fileExists(filename) {
			return nil, errors.NewValidationError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewValidationError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Invalid file %s", filename), err)
	}

	if filename == utils.StdinName {
		data, err := io.ReadAll(fp.stdin)
		if err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeFileNotReadable,
				"Failed to read standard input", err)
		}
		return data, nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil && fp.logger != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}
	return data, nil
}

// ReadFile reads a text file such as a saved model response
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	if !utils.IsResponseFile(filename) && fp.logger != nil {
		fp.logger.Warn("File may not be a text file", "filename", filename)
	}
	data, err := fp.ReadBytes(filename)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadUpload reads a local file into the shape an HTTP upload would have
func (fp *FileProcessor) ReadUpload(filename string) (types.Upload, error) {
	data, err := fp.ReadBytes(filename)
	if err != nil {
		return types.Upload{}, err
	}
	if fp.logger != nil {
		fp.logger.Debug("Read upload", "filename", filename, "size", utils.FormatFileSize(int64(len(data))))
	}
	return types.Upload{
		Name:        filepath.Base(filename),
		ContentType: utils.ContentTypeFor(filename, data),
		Data:        data,
	}, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	if err := fp.ValidateOutputFile(filename); err != nil {
		return err
	}
	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewValidationError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}
	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}
	return nil
}

func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
