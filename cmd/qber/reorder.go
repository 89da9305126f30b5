package main

import (
	"fmt"
	"strings"

	"qber/internal/taxonomy"

	"github.com/spf13/cobra"
)

var reorderPosition int

var reorderCmd = &cobra.Command{
	Use:   "reorder <section-path>",
	Short: "Move a section (or a whole group) to a new position",
	Long: `Move the section at the given path to a new 1-based position in the
flattened display order and persist the resulting order. Moving a group moves
all of its sections as one contiguous block.

Section paths use '/' between category codes, e.g. "health/wash".

Examples:
  qber reorder health/wash --to 1     # Move one section to the top
  qber reorder health --to 4          # Move the whole Health pillar`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setupEnv()
		if err != nil {
			return err
		}
		defer env.close()

		if err := env.loadSections(cmd.Context()); err != nil {
			return err
		}

		pathKey := taxonomy.PathKey(strings.Split(args[0], "/"))
		if err := env.session.MoveSection(cmd.Context(), pathKey, reorderPosition); err != nil {
			return err
		}

		// Persisted order changed; the cached copy is stale now.
		if err := env.cache.Invalidate(env.projectID, env.questionnaireID); err != nil {
			env.logger.Warn("failed to invalidate cache", "error", err)
		}

		fmt.Printf("Moved %q to position %d\n", args[0], reorderPosition)
		return env.renderTree()
	},
}

func init() {
	reorderCmd.Flags().IntVar(&reorderPosition, "to", 1, "Target 1-based position in display order")
	rootCmd.AddCommand(reorderCmd)
}
