package car

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/carsonrent/rentals/pkg/client"
)

var (
	updateMake         string
	updateModel        string
	updateLicensePlate string
	updateColor        string
	updateYear         int
	updateParked       bool
	updateFeatures     []string
	updateNotes        string
	updateCoordinates  int64
)

var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Replace a car's attributes",
	Long: `Replace every attribute of a car. Unset flags reset their fields.

Examples:
  rentals car update 7 --make Toyota -m Corolla --color red
  rentals car update 7 --make Toyota -m Corolla --parked --coordinates 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid car ID %q", args[0])
		}

		car := client.Car{
			ID:           id,
			Make:         updateMake,
			Model:        updateModel,
			LicensePlate: updateLicensePlate,
			Color:        updateColor,
			Year:         updateYear,
			Parked:       updateParked,
			Features:     updateFeatures,
			Notes:        updateNotes,
		}
		if updateCoordinates != 0 {
			car.CoordinatesID = &updateCoordinates
		}

		updated, err := newClient().Cars().Update(cmd.Context(), car)
		if err != nil {
			if errors.Is(err, client.ErrNotFound) {
				return fmt.Errorf("car %d not found", id)
			}
			return fmt.Errorf("failed to update car: %w", err)
		}

		fmt.Printf("Car updated: %d (%s %s)\n", updated.ID, updated.Make, updated.Model)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateMake, "make", "", "car make (required)")
	updateCmd.Flags().StringVarP(&updateModel, "model", "m", "", "car model (required)")
	updateCmd.Flags().StringVar(&updateLicensePlate, "plate", "", "license plate")
	updateCmd.Flags().StringVar(&updateColor, "color", "", "car color")
	updateCmd.Flags().IntVar(&updateYear, "year", 0, "model year")
	updateCmd.Flags().BoolVar(&updateParked, "parked", false, "mark the car as parked")
	updateCmd.Flags().StringSliceVar(&updateFeatures, "feature", nil, "car feature (repeatable)")
	updateCmd.Flags().StringVar(&updateNotes, "notes", "", "free-form notes")
	updateCmd.Flags().Int64Var(&updateCoordinates, "coordinates", 0, "linked coordinates ID")
	_ = updateCmd.MarkFlagRequired("make")
	_ = updateCmd.MarkFlagRequired("model")
}
