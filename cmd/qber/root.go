package main

import (
	"qber/internal/version"

	"github.com/spf13/cobra"
)

var (
	// projectFlag and questionnaireFlag scope every remote operation
	projectFlag       string
	questionnaireFlag string
	// endpointFlag overrides the configured API endpoint
	endpointFlag string
	// formatFlag selects text, json, or yaml output
	formatFlag string
	// offlineFlag serves reads from the local cache instead of the API
	offlineFlag bool
	// logLevelFlag overrides the configured log level
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "qber",
	Short: "Qber - questionnaire table-of-contents client",
	Long: `qber is a client for the Qber questionnaire-building API. It fetches a
questionnaire's taxonomy leaf groups, builds the pillar/sub-pillar table of
contents, and persists section reordering and visibility changes.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("qber version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", "", "Project id (default from config)")
	rootCmd.PersistentFlags().StringVarP(&questionnaireFlag, "questionnaire", "q", "", "Questionnaire id (default from config)")
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "API endpoint (default from config)")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text, json, or yaml")
	rootCmd.PersistentFlags().BoolVar(&offlineFlag, "offline", false, "Use the local cache instead of the API")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
}
