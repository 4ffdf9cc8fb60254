package domain

// UploadPhase is the orchestrator's position in the upload lifecycle.
type UploadPhase string

const (
	PhaseIdle      UploadPhase = "idle"
	PhaseUploading UploadPhase = "uploading"
	PhaseSucceeded UploadPhase = "succeeded"
	PhaseFailed    UploadPhase = "failed"
)

// FailureCategory classifies why a submitted upload did not succeed. Files
// rejected before submission carry ErrUnsupportedFileType or ErrFileTooLarge
// instead and never reach a category.
type FailureCategory string

const (
	FailureNone               FailureCategory = ""
	FailureTimeout            FailureCategory = "timeout"
	FailureClientRejected     FailureCategory = "client_rejected"
	FailureServiceUnavailable FailureCategory = "service_unavailable"
)

// AlertType is the severity of the notification banner.
type AlertType string

const (
	AlertSuccess AlertType = "success"
	AlertError   AlertType = "error"
)

// ConfidenceBand buckets a confidence score for display.
type ConfidenceBand string

const (
	BandHigh   ConfidenceBand = "high"
	BandMedium ConfidenceBand = "medium"
	BandLow    ConfidenceBand = "low"
)

// Label returns the capitalised band name shown in the summary.
func (b ConfidenceBand) Label() string {
	switch b {
	case BandHigh:
		return "High"
	case BandMedium:
		return "Medium"
	default:
		return "Low"
	}
}
