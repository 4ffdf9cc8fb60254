package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrAlreadyInProgress   = errors.New("an upload is already in progress")
	ErrUploadTimeout       = errors.New("upload request timed out")
	ErrClientRejected      = errors.New("processing service rejected the file")
	ErrServiceUnavailable  = errors.New("processing service unavailable")
	ErrSecondaryFetch      = errors.New("secondary result fetch failed")
)

// UploadError is the terminal failure of an upload attempt. Err carries the
// underlying cause for logs; Category selects the user-facing message.
type UploadError struct {
	Category FailureCategory
	Err      error
}

func (e *UploadError) Error() string {
	if e.Err == nil {
		return string(e.Category)
	}
	return string(e.Category) + ": " + e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match an UploadError against the sentinel of its category.
func (e *UploadError) Is(target error) bool {
	switch e.Category {
	case FailureTimeout:
		return target == ErrUploadTimeout
	case FailureClientRejected:
		return target == ErrClientRejected
	case FailureServiceUnavailable:
		return target == ErrServiceUnavailable
	}
	return false
}
