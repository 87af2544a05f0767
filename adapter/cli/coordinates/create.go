package coordinates

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/carsonrent/rentals/pkg/client"
)

var createCmd = &cobra.Command{
	Use:   "create [latitude] [longitude]",
	Short: "Create a new position",
	Long: `Create a new position from a latitude and longitude.

Examples:
  rentals coordinates create 52.52 13.405`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		latitude, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q", args[0])
		}
		longitude, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q", args[1])
		}

		created, err := newClient().Coordinates().Create(cmd.Context(), client.Coordinates{
			Latitude:  latitude,
			Longitude: longitude,
		})
		if err != nil {
			return fmt.Errorf("failed to create coordinates: %w", err)
		}

		fmt.Printf("Coordinates created: %d (%g, %g)\n", created.ID, created.Latitude, created.Longitude)
		return nil
	},
}
