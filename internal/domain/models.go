package domain

import (
	"time"

	"github.com/google/uuid"

	"idpportal/internal/result"
)

// Keys added to a processing result by the orchestrator.
const (
	ResultKeySecondary            = "secondaryResult"
	ResultKeySecondaryUnavailable = "secondaryUnavailable"
)

// PresignedURLPath locates the secondary-resource link in the upload response.
var PresignedURLPath = []string{"data", "presignedurl"}

// FileInfo describes a file selected for upload.
type FileInfo struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// UploadRecord is one uploaded file and, once processing completes, its
// merged processing result.
type UploadRecord struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Size        int64        `json:"size"`
	ContentType string       `json:"content_type"`
	Result      *result.Node `json:"result,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// SecondaryResult returns the document fetched from the presigned link, if any.
func (r *UploadRecord) SecondaryResult() (*result.Node, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.Result.Get(ResultKeySecondary)
	if !ok || v.IsNull() {
		return nil, false
	}
	return v, true
}

// SecondaryUnavailable reports whether the secondary fetch was skipped or failed.
func (r *UploadRecord) SecondaryUnavailable() bool {
	if r == nil {
		return false
	}
	v, ok := r.Result.Get(ResultKeySecondaryUnavailable)
	if !ok {
		return false
	}
	flag, _ := v.Truth()
	return flag
}

// DisplayDocument is the document shown to the user: the secondary result
// when present, otherwise the primary response.
func (r *UploadRecord) DisplayDocument() *result.Node {
	if r == nil {
		return nil
	}
	if sec, ok := r.SecondaryResult(); ok {
		return sec
	}
	return r.Result
}

// UploadState is a snapshot of the orchestrator.
type UploadState struct {
	Phase    UploadPhase     `json:"phase"`
	Progress int             `json:"progress"`
	Active   *UploadRecord   `json:"active,omitempty"`
	Category FailureCategory `json:"category,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// Alert is the transient notification banner.
type Alert struct {
	Message   string    `json:"message"`
	Type      AlertType `json:"type"`
	ShownAt   time.Time `json:"shown_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the alert should no longer be displayed at now.
func (a *Alert) Expired(now time.Time) bool {
	return a == nil || !now.Before(a.ExpiresAt)
}
