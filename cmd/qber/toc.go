package main

import (
	"github.com/spf13/cobra"
)

var tocCmd = &cobra.Command{
	Use:   "toc",
	Short: "Show the questionnaire table of contents",
	Long: `Fetch the questionnaire's taxonomy leaf groups and render the pillar /
sub-pillar table of contents with per-section visibility state.

Examples:
  qber toc -p proj1 -q quest1            # Fetch and render as text
  qber toc -p proj1 -q quest1 -f json    # Render as JSON
  qber toc --offline                     # Render from the local cache`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setupEnv()
		if err != nil {
			return err
		}
		defer env.close()

		if err := env.loadSections(cmd.Context()); err != nil {
			return err
		}
		return env.renderTree()
	},
}

func init() {
	rootCmd.AddCommand(tocCmd)
}
