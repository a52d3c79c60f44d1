// Browse command for the locker CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/lockerhq/locker/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse your items interactively",
	Long: `Browse opens a full-screen list of your items. Inside the browser:
a adds an item, d removes the selected one, r reloads from the server,
/ filters, q quits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := requireToken()
		if err != nil {
			return err
		}

		return tui.Run(newAPIClient(), token)
	},
}
