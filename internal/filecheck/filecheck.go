// Package filecheck holds the pre-flight checks run on a file before it is
// sent for processing. The content type is the label declared by the client;
// nothing here inspects file bytes.
package filecheck

import (
	"fmt"
	"strings"

	"idpportal/internal/domain"
)

// DefaultMaxSizeMB is the upload size ceiling when none is configured.
const DefaultMaxSizeMB = 10

// IsAcceptedType reports whether the declared content type is a PDF or an image.
func IsAcceptedType(contentType string) bool {
	return contentType == "application/pdf" || strings.HasPrefix(contentType, "image/")
}

// IsWithinSizeLimit reports whether size bytes fits within maxMB megabytes.
func IsWithinSizeLimit(size, maxMB int64) bool {
	return size <= maxMB*1024*1024
}

// Check runs both predicates, type first.
func Check(file domain.FileInfo, maxMB int64) error {
	if !IsAcceptedType(file.ContentType) {
		return domain.ErrUnsupportedFileType
	}
	if !IsWithinSizeLimit(file.Size, maxMB) {
		return domain.ErrFileTooLarge
	}
	return nil
}

// FormatSize renders a byte count as KB below one megabyte and MB above.
func FormatSize(bytes int64) string {
	mb := float64(bytes) / 1024 / 1024
	if mb < 1 {
		return fmt.Sprintf("%.0f KB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%.2f MB", mb)
}
