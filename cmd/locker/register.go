// Register command for the locker CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register LOGIN PASSWORD",
	Short: "Create an account on the server",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newAPIClient().Register(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("register: %w", err)
		}

		fmt.Println("Registered", args[0])
		return nil
	},
}
