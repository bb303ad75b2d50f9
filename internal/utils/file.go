package utils

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// StdinName is the file argument that reads standard input
const StdinName = "-"

// ValidateInputFile checks that filename names a readable regular file.
// StdinName is always accepted.
func ValidateInputFile(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if filename == StdinName {
		return nil
	}

	info, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", filename)
		}
		return fmt.Errorf("cannot access file %s: %w", filename, err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filename)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", filename)
	}
	return nil
}

// ValidateOutputFile makes sure the parent directory of an output path exists
func ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout
	}

	dir := filepath.Dir(filename)
	if dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetFileExtension returns the file extension in lowercase
func GetFileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// ContentTypeFor reports the media type of a local file the way a browser
// would label it on upload: by extension first, then by sniffing the content.
func ContentTypeFor(filename string, data []byte) string {
	if GetFileExtension(filename) == ".pdf" {
		return "application/pdf"
	}
	return http.DetectContentType(data)
}

// IsResponseFile reports whether a file looks like a saved model response
func IsResponseFile(filename string) bool {
	if filename == StdinName {
		return true
	}
	return slices.Contains([]string{".txt", ".md", ".markdown", ".json", ".text"}, GetFileExtension(filename))
}

// FormatFileSize returns a human-readable file size
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
