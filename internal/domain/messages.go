package domain

import "errors"

// User-facing notification text. Raw error details never reach the user.
const (
	MsgServiceUnavailable = "processing service currently unavailable, retry later"
	MsgClientRejected     = "file cannot be processed, try a different file"
	MsgUnsupportedType    = "unsupported file type"
	MsgFileTooLarge       = "file too large"
	MsgAlreadyInProgress  = "an upload is already in progress"
	MsgUploadSucceeded    = "document uploaded successfully"
)

// Message returns the fixed notification text for a failure category.
func (c FailureCategory) Message() string {
	switch c {
	case FailureClientRejected:
		return MsgClientRejected
	default:
		return MsgServiceUnavailable
	}
}

// UserMessage maps any orchestration error to its notification text.
func UserMessage(err error) string {
	var uploadErr *UploadError
	switch {
	case errors.Is(err, ErrUnsupportedFileType):
		return MsgUnsupportedType
	case errors.Is(err, ErrFileTooLarge):
		return MsgFileTooLarge
	case errors.Is(err, ErrAlreadyInProgress):
		return MsgAlreadyInProgress
	case errors.As(err, &uploadErr):
		return uploadErr.Category.Message()
	default:
		return MsgServiceUnavailable
	}
}
