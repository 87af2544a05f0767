package coordinates

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
	Short: "Search positions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := newClient().Coordinates().Search(cmd.Context(), args[0], searchPage, searchSize)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if len(page.Items) == 0 {
			fmt.Println("No matches.")
			return nil
		}

		for _, c := range page.Items {
			fmt.Printf("%-6d %g, %g\n", c.ID, c.Latitude, c.Longitude)
		}
		fmt.Printf("\n%d of %d matches\n", len(page.Items), page.TotalCount)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchPage, "page", -1, "page number (zero-based)")
	searchCmd.Flags().IntVar(&searchSize, "size", -1, "page size")
}
