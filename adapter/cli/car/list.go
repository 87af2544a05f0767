package car

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	listPage int
	listSize int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cars",
	Long: `List one page of cars.

Examples:
  rentals car list
  rentals car list --page 2 --size 50`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := newClient().Cars().Query(cmd.Context(), listPage, listSize)
		if err != nil {
			return fmt.Errorf("failed to list cars: %w", err)
		}

		if len(page.Items) == 0 {
			fmt.Println("No cars found.")
			return nil
		}

		fmt.Printf("%-6s %-12s %-12s %-12s %-8s %s\n", "ID", "MAKE", "MODEL", "PLATE", "PARKED", "FEATURES")
		for _, car := range page.Items {
			fmt.Printf("%-6d %-12s %-12s %-12s %-8t %s\n",
				car.ID, car.Make, car.Model, car.LicensePlate, car.Parked,
				strings.Join(car.Features, ","),
			)
		}
		fmt.Printf("\n%d of %d cars\n", len(page.Items), page.TotalCount)
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", -1, "page number (zero-based)")
	listCmd.Flags().IntVar(&listSize, "size", -1, "page size")
}
