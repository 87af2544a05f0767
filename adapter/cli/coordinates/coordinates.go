// Package coordinates contains the coordinates command group.
package coordinates

import (
	"github.com/spf13/cobra"

	"github.com/carsonrent/rentals/adapter/cli"
	"github.com/carsonrent/rentals/pkg/client"
)

// Cmd is the coordinates command group
var Cmd = &cobra.Command{
	Use:   "coordinates",
	Short: "Manage vehicle positions",
	Long:  `Create, list, update, delete and search positions through the API.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(searchCmd)
}

func newClient() *client.Client {
	return client.New(client.Config{BaseURL: cli.ServerURL()})
}
