package confidence

import (
	"math"

	"idpportal/internal/domain"
)

// Band thresholds. High is open above HighThreshold; medium is closed on both ends.
const (
	HighThreshold   = 0.90
	MediumThreshold = 0.60
)

// BandOf classifies a confidence score.
func BandOf(c float64) domain.ConfidenceBand {
	switch {
	case c > HighThreshold:
		return domain.BandHigh
	case c >= MediumThreshold:
		return domain.BandMedium
	default:
		return domain.BandLow
	}
}

// Percent converts a score to a whole percentage for display.
func Percent(c float64) int {
	return int(math.Round(c * 100))
}
