package processor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"idpportal/internal/domain"
)

var (
	// ErrInvalidResponse is returned when a successful response body is not JSON.
	ErrInvalidResponse = errors.New("processing response is not valid JSON")
	// ErrUnsupportedScheme is returned for endpoints that are not http or https.
	ErrUnsupportedScheme = errors.New("endpoint scheme must be http or https")
)

// StatusError indicates the processing endpoint answered with a non-success status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("processing endpoint returned status %d", e.Code)
	}
	return fmt.Sprintf("processing endpoint returned status %d: %s", e.Code, e.Body)
}

// ClientError reports whether the status is in the 4xx range.
func (e *StatusError) ClientError() bool {
	return e.Code >= 400 && e.Code < 500
}

// Classify maps a Submit error to a failure category. Deadlines and network
// timeouts are Timeout, 4xx statuses are ClientRejected, and everything else
// is ServiceUnavailable.
func Classify(err error) domain.FailureCategory {
	if err == nil {
		return domain.FailureNone
	}
	var uploadErr *domain.UploadError
	if errors.As(err, &uploadErr) && uploadErr.Category != domain.FailureNone {
		return uploadErr.Category
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.FailureTimeout
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.ClientError() {
		return domain.FailureClientRejected
	}
	return domain.FailureServiceUnavailable
}

func truncate(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
