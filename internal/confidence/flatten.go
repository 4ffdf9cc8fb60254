// Package confidence flattens confidence-annotated extraction results into a
// display list and summarises their scores.
package confidence

import (
	"sort"
	"strings"

	"idpportal/internal/domain"
	"idpportal/internal/result"
)

const (
	keyConfidence = "confidence"
	keyValue      = "value"

	// ExplainabilityKey holds per-field confidence in processing results.
	ExplainabilityKey = "explainability_info"
)

// Field is one confidence-bearing leaf of a result tree.
type Field struct {
	Path       []string     `json:"path"`
	Value      *result.Node `json:"value"`
	Confidence float64      `json:"confidence"`
}

// Label joins the path with single spaces.
func (f Field) Label() string {
	return strings.Join(f.Path, " ")
}

// Band is the confidence band of the field.
func (f Field) Band() domain.ConfidenceBand {
	return BandOf(f.Confidence)
}

// Stats summarises a set of confidence scores. Every value is 0 for an empty set.
type Stats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Report is the flattened view of a result plus its summary.
type Report struct {
	Fields  []Field               `json:"fields"`
	Stats   Stats                 `json:"stats"`
	Overall domain.ConfidenceBand `json:"overall"`
}

// Flatten walks node depth-first in key order. An object member carrying a
// "confidence" attribute is a leaf; any other object member is descended
// into. Arrays and scalars are skipped, so confidence-bearing objects inside
// arrays are not reported.
func Flatten(node *result.Node) []Field {
	return flatten(node, nil)
}

func flatten(node *result.Node, prefix []string) []Field {
	var out []Field
	for _, key := range node.Keys() {
		child, _ := node.Get(key)
		if !child.IsObject() {
			continue
		}
		path := append(append(make([]string, 0, len(prefix)+1), prefix...), key)
		if score, ok := child.Get(keyConfidence); ok {
			c, _ := score.Num()
			value, _ := child.Get(keyValue)
			out = append(out, Field{Path: path, Value: value, Confidence: c})
			continue
		}
		out = append(out, flatten(child, path)...)
	}
	return out
}

// Summarize computes mean, median, min and max over the fields' scores.
func Summarize(fields []Field) Stats {
	if len(fields) == 0 {
		return Stats{}
	}

	scores := make([]float64, len(fields))
	var sum float64
	for i, f := range fields {
		scores[i] = f.Confidence
		sum += f.Confidence
	}
	sort.Float64s(scores)

	n := len(scores)
	median := scores[n/2]
	if n%2 == 0 {
		median = (scores[n/2-1] + scores[n/2]) / 2
	}

	return Stats{
		Count:  n,
		Mean:   sum / float64(n),
		Median: median,
		Min:    scores[0],
		Max:    scores[n-1],
	}
}

// Analyze flattens node and summarises the result. The overall band is the
// band of the mean score.
func Analyze(node *result.Node) Report {
	fields := Flatten(node)
	if fields == nil {
		fields = []Field{}
	}
	stats := Summarize(fields)
	return Report{
		Fields:  fields,
		Stats:   stats,
		Overall: BandOf(stats.Mean),
	}
}

// ExplainabilityRoot returns the explainability subtree of doc when present,
// otherwise doc itself.
func ExplainabilityRoot(doc *result.Node) *result.Node {
	if sub, ok := doc.Get(ExplainabilityKey); ok && sub.IsObject() {
		return sub
	}
	return doc
}
