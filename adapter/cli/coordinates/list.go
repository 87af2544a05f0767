package coordinates

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listPage int
	listSize int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List positions",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := newClient().Coordinates().Query(cmd.Context(), listPage, listSize)
		if err != nil {
			return fmt.Errorf("failed to list coordinates: %w", err)
		}

		if len(page.Items) == 0 {
			fmt.Println("No positions found.")
			return nil
		}

		fmt.Printf("%-6s %-12s %-12s\n", "ID", "LATITUDE", "LONGITUDE")
		for _, c := range page.Items {
			fmt.Printf("%-6d %-12g %-12g\n", c.ID, c.Latitude, c.Longitude)
		}
		fmt.Printf("\n%d of %d positions\n", len(page.Items), page.TotalCount)
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", -1, "page number (zero-based)")
	listCmd.Flags().IntVar(&listSize, "size", -1, "page size")
}
