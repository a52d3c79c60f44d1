// Send command for the locker CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send ID RECIPIENT",
	Short: "Send an item to another user",
	Long: `Send starts handing an item over to another user and prints the
confirmation URL. The hand-over completes when the recipient opens the
URL or runs "locker receive URL". Sending the same item to the same
user again prints the same URL.

Example:
  locker send 7 bob`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := requireToken()
		if err != nil {
			return err
		}

		id, err := parseItemID(args[0])
		if err != nil {
			return err
		}

		url, err := newAPIClient().Send(cmd.Context(), token, id, args[1])
		if err != nil {
			return fmt.Errorf("send: %w", err)
		}

		fmt.Println(url)
		return nil
	},
}
