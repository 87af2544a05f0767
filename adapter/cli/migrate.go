package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carsonrent/rentals/internal/app"
	"github.com/carsonrent/rentals/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Apply migrations for the configured database. SQLite databases are
migrated automatically on startup; Postgres needs this before first serve.`,
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

		if err := container.Migrate(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Printf("migrations applied (%s)\n", container.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
