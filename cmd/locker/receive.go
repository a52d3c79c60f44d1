// Receive command for the locker CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var receiveCmd = &cobra.Command{
	Use:   "receive URL",
	Short: "Accept an item using a confirmation URL",
	Long: `Receive completes a hand-over using its confirmation URL. The path of
the URL is resolved against the configured server address, so a link
minted behind a different public name still works.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newAPIClient().Receive(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("receive: %w", err)
		}

		fmt.Println("Received")
		return nil
	},
}
