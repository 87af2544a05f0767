package coordinates

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/carsonrent/rentals/pkg/client"
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid coordinates ID %q", args[0])
		}

		c, err := newClient().Coordinates().Get(cmd.Context(), id)
		if err != nil {
			if errors.Is(err, client.ErrNotFound) {
				return fmt.Errorf("coordinates %d not found", id)
			}
			return fmt.Errorf("failed to get coordinates: %w", err)
		}

		fmt.Printf("Coordinates %d\n", c.ID)
		fmt.Printf("  latitude:  %g\n", c.Latitude)
		fmt.Printf("  longitude: %g\n", c.Longitude)
		return nil
	},
}
