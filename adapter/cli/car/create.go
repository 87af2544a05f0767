package car

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carsonrent/rentals/pkg/client"
)

var (
	createModel        string
	createLicensePlate string
	createColor        string
	createYear         int
	createParked       bool
	createFeatures     []string
	createNotes        string
)

var createCmd = &cobra.Command{
	Use:   "create [make]",
	Short: "Create a new car",
	Long: `Create a new car with a make and optional properties.

Examples:
  rentals car create Toyota -m Corolla --plate "B-RT 1234"
  rentals car create Renault -m Clio --color red --year 2022 --feature gps`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := newClient().Cars().Create(cmd.Context(), client.Car{
			Make:         args[0],
			Model:        createModel,
			LicensePlate: createLicensePlate,
			Color:        createColor,
			Year:         createYear,
			Parked:       createParked,
			Features:     createFeatures,
			Notes:        createNotes,
		})
		if err != nil {
			return fmt.Errorf("failed to create car: %w", err)
		}

		fmt.Printf("Car created: %d\n", created.ID)
		fmt.Printf("  make:  %s\n", created.Make)
		fmt.Printf("  model: %s\n", created.Model)
		if created.LicensePlate != "" {
			fmt.Printf("  plate: %s\n", created.LicensePlate)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createModel, "model", "m", "", "car model (required)")
	createCmd.Flags().StringVar(&createLicensePlate, "plate", "", "license plate")
	createCmd.Flags().StringVar(&createColor, "color", "", "car color")
	createCmd.Flags().IntVar(&createYear, "year", 0, "model year")
	createCmd.Flags().BoolVar(&createParked, "parked", false, "mark the car as parked")
	createCmd.Flags().StringSliceVar(&createFeatures, "feature", nil, "car feature (repeatable)")
	createCmd.Flags().StringVar(&createNotes, "notes", "", "free-form notes")
	_ = createCmd.MarkFlagRequired("model")
}
