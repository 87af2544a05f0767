package car

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchPage int
	searchSize int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search cars",
	Long: `Run a free-text query against the car search index.

Examples:
  rentals car search corolla
  rentals car search "red bluetooth" --size 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := newClient().Cars().Search(cmd.Context(), args[0], searchPage, searchSize)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if len(page.Items) == 0 {
			fmt.Println("No matches.")
			return nil
		}

		for _, car := range page.Items {
			fmt.Printf("%-6d %s %s (%s)\n", car.ID, car.Make, car.Model, car.LicensePlate)
		}
		fmt.Printf("\n%d of %d matches\n", len(page.Items), page.TotalCount)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchPage, "page", -1, "page number (zero-based)")
	searchCmd.Flags().IntVar(&searchSize, "size", -1, "page size")
}
