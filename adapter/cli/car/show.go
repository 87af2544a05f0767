package car

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carsonrent/rentals/pkg/client"
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one car",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid car ID %q", args[0])
		}

		car, err := newClient().Cars().Get(cmd.Context(), id)
		if err != nil {
			if errors.Is(err, client.ErrNotFound) {
				return fmt.Errorf("car %d not found", id)
			}
			return fmt.Errorf("failed to get car: %w", err)
		}

		fmt.Printf("Car %d\n", car.ID)
		fmt.Printf("  make:    %s\n", car.Make)
		fmt.Printf("  model:   %s\n", car.Model)
		fmt.Printf("  plate:   %s\n", car.LicensePlate)
		fmt.Printf("  color:   %s\n", car.Color)
		fmt.Printf("  year:    %d\n", car.Year)
		fmt.Printf("  parked:  %t\n", car.Parked)
		if len(car.Features) > 0 {
			fmt.Printf("  features: %s\n", strings.Join(car.Features, ", "))
		}
		if car.Notes != "" {
			fmt.Printf("  notes:   %s\n", car.Notes)
		}
		if car.CoordinatesID != nil {
			fmt.Printf("  coordinates: %d\n", *car.CoordinatesID)
		}
		return nil
	},
}
