// Items commands for the locker CLI.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lockerhq/locker/pkg/types"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Work with your items",
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your items",
	Long: `List fetches the logged-in user's items ordered by id.

Example:
  locker items list
  locker items list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := requireToken()
		if err != nil {
			return err
		}

		entries, err := newAPIClient().Items(cmd.Context(), token)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}

		if flagJSON {
			return printJSON(entries)
		}
		printItemTable(entries)
		return nil
	},
}

var itemsAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := requireToken()
		if err != nil {
			return err
		}

		entry, err := newAPIClient().CreateItem(cmd.Context(), token, args[0])
		if err != nil {
			return fmt.Errorf("add item: %w", err)
		}

		if flagJSON {
			return printJSON(entry)
		}
		fmt.Printf("Added #%d %s\n", entry.ID, entry.Name)
		return nil
	},
}

var itemsRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Remove an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := requireToken()
		if err != nil {
			return err
		}

		id, err := parseItemID(args[0])
		if err != nil {
			return err
		}

		removed, err := newAPIClient().DeleteItem(cmd.Context(), token, id)
		if err != nil {
			return fmt.Errorf("remove item: %w", err)
		}

		if removed {
			fmt.Println("Removed item", id)
		} else {
			fmt.Println("Item", id, "was already gone")
		}
		return nil
	},
}

func init() {
	itemsCmd.AddCommand(itemsListCmd)
	itemsCmd.AddCommand(itemsAddCmd)
	itemsCmd.AddCommand(itemsRmCmd)
}

// printItemTable prints items in a human-readable table format.
func printItemTable(entries []types.ItemEntry) {
	if len(entries) == 0 {
		fmt.Println("No items.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	fmt.Fprintln(w, "--\t----")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\n", e.ID, e.Name)
	}
	w.Flush()

	fmt.Printf("Total: %d item(s)\n", len(entries))
}
