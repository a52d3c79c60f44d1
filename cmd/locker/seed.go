// Seed command for the locker CLI.
package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/lockerhq/locker/internal/sqlite"
)

var seedCmd = &cobra.Command{
	Use:   "seed FIXTURES",
	Short: "Load fixture users and items from a YAML file",
	Long: `Seed reads a YAML fixtures file and creates its users and items.
Users whose login already exists are skipped entirely.

Fixtures file shape:

  users:
    - login: alice
      password: wonderland
      items: [spoon, fork]

Example:
  locker seed fixtures.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fixtures, err := sqlite.LoadSeedFile(args[0])
		if err != nil {
			return err
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "seed:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		bar := progressbar.Default(int64(len(fixtures.Users)), "seeding")
		created, skipped, err := backend.Seed(cmd.Context(), fixtures, func() { bar.Add(1) })
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}

		fmt.Printf("Seeded %d user(s), skipped %d existing\n", created, skipped)
		return nil
	},
}
