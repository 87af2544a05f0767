package coordinates

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/carsonrent/rentals/pkg/client"
)

var updateCmd = &cobra.Command{
	Use:   "update [id] [latitude] [longitude]",
	Short: "Replace a position",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid coordinates ID %q", args[0])
		}
		latitude, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q", args[1])
		}
		longitude, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q", args[2])
		}

		updated, err := newClient().Coordinates().Update(cmd.Context(), client.Coordinates{
			ID:        id,
			Latitude:  latitude,
			Longitude: longitude,
		})
		if err != nil {
			if errors.Is(err, client.ErrNotFound) {
				return fmt.Errorf("coordinates %d not found", id)
			}
			return fmt.Errorf("failed to update coordinates: %w", err)
		}

		fmt.Printf("Coordinates updated: %d (%g, %g)\n", updated.ID, updated.Latitude, updated.Longitude)
		return nil
	},
}
