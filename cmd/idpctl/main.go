package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"idpportal/internal/config"
	"idpportal/internal/logger"
)

// annotationNoConfig marks commands that run without environment configuration.
const annotationNoConfig = "no-config"

var (
	cfg      *config.Config
	log      zerolog.Logger
	mockMode bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "idpctl",
	Short:         "Submit documents for processing and inspect results",
	Long:          "Uploads documents to the processing service (or the built-in mock), merges the presigned secondary result, and reports field confidence and required-field validation.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logCfg := config.LogConfig{Level: logLevel, Format: "console"}
		if _, ok := cmd.Annotations[annotationNoConfig]; ok {
			log = logger.NewWithWriter(logCfg, "idpctl", cmd.ErrOrStderr())
			return nil
		}

		if mockMode {
			if err := os.Setenv("IDP_PROCESSOR_MOCK_MODE", "true"); err != nil {
				return fmt.Errorf("set mock mode: %w", err)
			}
		}
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if logLevel == "" {
			logCfg.Level = cfg.Log.Level
		}
		log = logger.NewWithWriter(logCfg, "idpctl", cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&mockMode, "mock", false, "use canned fixtures instead of the processing endpoint")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default from IDP_LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
