// Login and logout commands for the locker CLI.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login LOGIN PASSWORD",
	Short: "Log in and store the auth token",
	Long: `Login obtains a fresh auth token from the server and stores it in the
credentials file for the other client commands. Logging in again replaces
the stored token.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := newAPIClient().Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}

		expires := time.Now().Add(time.Duration(cfg.GetInt(cfgKeyTokenTTL)) * time.Second)
		if err := saveToken(args[0], token, expires); err != nil {
			return fmt.Errorf("save credentials: %w", err)
		}

		fmt.Printf("Logged in as %s (token valid until %s)\n", args[0], expires.Format(time.RFC3339))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored auth token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := deleteToken(); err != nil {
			return err
		}

		fmt.Println("Logged out")
		return nil
	},
}
