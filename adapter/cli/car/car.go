// Package car contains the car command group.
package car

import (
	"github.com/spf13/cobra"

	"github.com/carsonrent/rentals/adapter/cli"
	"github.com/carsonrent/rentals/pkg/client"
)

// Cmd is the car command group
var Cmd = &cobra.Command{
	Use:   "car",
	Short: "Manage the car fleet",
	Long:  `Create, list, update, delete and search cars through the API.`,
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
