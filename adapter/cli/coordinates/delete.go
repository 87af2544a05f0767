package coordinates

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Short:   "Delete a position",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid coordinates ID %q", args[0])
		}

		if err := newClient().Coordinates().Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete coordinates: %w", err)
		}

		fmt.Printf("Coordinates deleted: %d\n", id)
		return nil
	},
}
