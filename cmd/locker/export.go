// Export command for the locker CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the database as JSONL files",
	Long: `Export writes users.jsonl, items.jsonl, and sendings.jsonl to the
output directory. Each file is written atomically.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		if err := backend.ExportJSONL(cmd.Context(), exportOut); err != nil {
			return fmt.Errorf("export: %w", err)
		}

		fmt.Println("Exported to", exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "locker-export", "output directory")
}
