// Package export renders confidence reports as CSV or XLSX downloads.
package export

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"idpportal/internal/confidence"
	"idpportal/internal/result"
	"idpportal/internal/validator"
)

// Format is a supported export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat resolves a query value; empty selects CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format: %q", s)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Document is one upload's report to export.
type Document struct {
	Name       string
	Report     confidence.Report
	Validation *validator.Outcome
	ExportedAt time.Time
}

// columns defines the field table header row.
var columns = []string{
	"Field",
	"Value",
	"Confidence",
	"Confidence %",
	"Band",
}

func fieldRow(f confidence.Field) []string {
	return []string{
		f.Label(),
		valueText(f.Value),
		strconv.FormatFloat(f.Confidence, 'f', 4, 64),
		strconv.Itoa(confidence.Percent(f.Confidence)) + "%",
		f.Band().Label(),
	}
}

func summaryRows(s confidence.Stats) [][]string {
	return [][]string{
		{"Fields", strconv.Itoa(s.Count)},
		{"Mean", formatScore(s.Mean)},
		{"Median", formatScore(s.Median)},
		{"Min", formatScore(s.Min)},
		{"Max", formatScore(s.Max)},
	}
}

func validationRows(o *validator.Outcome) [][]string {
	if o == nil {
		return nil
	}
	rows := make([][]string, 0, len(o.Results))
	for _, r := range o.Results {
		status := "Missing"
		if r.Passed {
			status = "Found"
		}
		rows = append(rows, []string{r.Field.DisplayName, r.Field.FieldPath(), status})
	}
	return rows
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// valueText renders a leaf value for a spreadsheet cell.
func valueText(n *result.Node) string {
	if n == nil || n.IsNull() {
		return ""
	}
	if s, ok := n.Str(); ok {
		return s
	}
	if n.IsArray() {
		parts := make([]string, 0, n.Len())
		for _, item := range n.Items() {
			parts = append(parts, valueText(item))
		}
		return strings.Join(parts, "; ")
	}
	b, err := json.Marshal(n)
	if err != nil {
		return ""
	}
	return string(b)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a file name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "document"
	}
	return s
}

// BuildFilename returns {sanitized_name}_confidence_{YYYY-MM-DD}.{format}.
func BuildFilename(name string, f Format, now time.Time) string {
	base := strings.TrimSuffix(name, extOf(name))
	return fmt.Sprintf("%s_confidence_%s.%s", SanitizeFilename(base), now.Format("2006-01-02"), f)
}

func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i:]
	}
	return ""
}
