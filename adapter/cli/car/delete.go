package car

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Short:   "Delete a car",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid car ID %q", args[0])
		}

		if err := newClient().Cars().Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete car: %w", err)
		}

		fmt.Printf("Car deleted: %d\n", id)
		return nil
	},
}
