package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"idpportal/internal/processor/mock"
)

var fixturesCmd = &cobra.Command{
	Use:         "fixtures [name]",
	Short:       "List the mock-mode fixtures or print one",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationNoConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, name := range mock.Fixtures {
				_, _ = fmt.Fprintln(out, name)
			}
			return nil
		}
		data, err := mock.Raw(args[0])
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(fixturesCmd)
}
