package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(e *env) *cobra.Command {
	var (
		search     string
		categoryID int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List suppliers",
		Long: `List stored suppliers, optionally filtered.

The search term matches name, address or contact ignoring case.
A category narrows the list to suppliers tagged with it. Both filters combine.

Examples:
  suppliers list
  suppliers list -q rua
  suppliers list --category 2
  suppliers list -q ana --category 2 --json | jq '.[].id'`,
		Args: cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			session := e.newSession()
			if err := session.Reload(cmd.Context()); err != nil {
				return err
			}

			session.SetSearchTerm(search)
			if cmd.Flags().Changed("category") {
				if err := session.SetCategory(&categoryID); err != nil {
					return fmt.Errorf("%w: %d (see 'suppliers categories')", err, categoryID)
				}
			}

			visible := session.Visible()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), visible)
			}
			if len(visible) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No suppliers found")
				return nil
			}
			return writeRecordTable(cmd.OutOrStdout(), visible)
		}),
	}

	cmd.Flags().StringVarP(&search, "search", "q", "", "text to match against name, address or contact")
	cmd.Flags().IntVar(&categoryID, "category", 0, "only suppliers with this category id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
