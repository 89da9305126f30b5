package main

import (
	"fmt"
	"strings"

	"qber/internal/taxonomy"

	"github.com/spf13/cobra"
)

var visibilityCmd = &cobra.Command{
	Use:   "visibility",
	Short: "Show or hide questionnaire sections",
}

var visibilityShowCmd = &cobra.Command{
	Use:   "show <section-path>...",
	Short: "Make sections visible",
	Long: `Make the sections at the given paths visible. A group path selects every
section beneath it as one batch.

Examples:
  qber visibility show health/wash
  qber visibility show health education`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVisibility(cmd, args, true)
	},
}

var visibilityHideCmd = &cobra.Command{
	Use:   "hide <section-path>...",
	Short: "Hide sections",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVisibility(cmd, args, false)
	},
}

func runVisibility(cmd *cobra.Command, args []string, visible bool) error {
	env, err := setupEnv()
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.loadSections(cmd.Context()); err != nil {
		return err
	}

	for _, arg := range args {
		pathKey := taxonomy.PathKey(strings.Split(arg, "/"))
		if err := env.session.ToggleGroup(cmd.Context(), pathKey, visible); err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
	}

	if err := env.cache.Invalidate(env.projectID, env.questionnaireID); err != nil {
		env.logger.Warn("failed to invalidate cache", "error", err)
	}
	return env.renderTree()
}

func init() {
	visibilityCmd.AddCommand(visibilityShowCmd)
	visibilityCmd.AddCommand(visibilityHideCmd)
	rootCmd.AddCommand(visibilityCmd)
}
