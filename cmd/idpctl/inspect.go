package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"idpportal/internal/confidence"
	"idpportal/internal/domain"
	"idpportal/internal/result"
	"idpportal/internal/validator"
)

var inspectCmd = &cobra.Command{
	Use:         "inspect <result.json>",
	Short:       "Print the confidence report and validation of a saved result",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationNoConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		doc, err := result.Parse(data)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		rec := &domain.UploadRecord{Name: filepath.Base(args[0]), Result: doc}
		target := rec.DisplayDocument()

		out := cmd.OutOrStdout()
		outcome := validator.Validate(target)
		renderValidation(out, &outcome, rec.Name)
		renderReport(out, confidence.Analyze(confidence.ExplainabilityRoot(target)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
