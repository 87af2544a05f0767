package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carsonrent/rentals/internal/app"
	"github.com/carsonrent/rentals/pkg/config"
	"github.com/carsonrent/rentals/pkg/observability"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the search indexes from the relational store",
	Long: `Clear both search indexes and re-index every car and position.
Use this after restoring a database or when the mirror has drifted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer container.Close()

		timer := observability.StartTimer("reindex").WithLogger(logger)
		indexed, err := container.Reindexer.Reindex(ctx)
		timer.StopWithError(err)
		if err != nil {
			return fmt.Errorf("reindex failed after %d documents: %w", indexed, err)
		}

		fmt.Printf("reindexed %d documents\n", indexed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}
