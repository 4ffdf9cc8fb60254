package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"idpportal/internal/confidence"
	"idpportal/internal/validator"
)

func renderReport(out io.Writer, report confidence.Report) {
	if len(report.Fields) == 0 {
		_, _ = fmt.Fprintln(out, "no confidence fields")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FIELD\tVALUE\tCONFIDENCE\tBAND")
	_, _ = fmt.Fprintln(w, "-----\t-----\t----------\t----")
	for _, f := range report.Fields {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d%%\t%s\n",
			f.Label(),
			truncate(valueString(f), 40),
			confidence.Percent(f.Confidence),
			f.Band().Label(),
		)
	}
	_ = w.Flush()

	s := report.Stats
	_, _ = fmt.Fprintf(out, "\n%d fields  mean %d%%  median %d%%  min %d%%  max %d%%  overall %s\n",
		s.Count,
		confidence.Percent(s.Mean),
		confidence.Percent(s.Median),
		confidence.Percent(s.Min),
		confidence.Percent(s.Max),
		report.Overall.Label(),
	)
}

func renderValidation(out io.Writer, outcome *validator.Outcome, fileName string) {
	if outcome == nil {
		return
	}
	_, _ = fmt.Fprintln(out, outcome.Title())
	_, _ = fmt.Fprintln(out, outcome.Description(fileName))
	names := make([]string, 0, len(outcome.Listed()))
	for _, f := range outcome.Listed() {
		names = append(names, f.DisplayName)
	}
	if len(names) > 0 {
		_, _ = fmt.Fprintf(out, "  %s\n", strings.Join(names, ", "))
	}
	_, _ = fmt.Fprintln(out)
}

func valueString(f confidence.Field) string {
	if f.Value == nil || f.Value.IsNull() {
		return "-"
	}
	if s, ok := f.Value.Str(); ok {
		return s
	}
	b, err := f.Value.MarshalJSON()
	if err != nil {
		return "?"
	}
	return string(b)
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
