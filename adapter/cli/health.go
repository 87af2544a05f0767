package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carsonrent/rentals/internal/app"
	"github.com/carsonrent/rentals/pkg/config"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check dependency health",
	Long:  `Run the health checks against the configured database, Redis and RabbitMQ.`,
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

		overall := container.Health.GetOverallHealth(ctx)
		fmt.Printf("status: %s\n", overall.Status)
		for name, check := range overall.Checks {
			fmt.Printf("  %-10s %-10s %s\n", name, check.Status, check.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
