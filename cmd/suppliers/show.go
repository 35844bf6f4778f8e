package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCmd(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one supplier",
		Args:  cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			rec, err := e.repo.GetByID(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("supplier %s: %w", args[0], err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			return writeRecordDetail(cmd.OutOrStdout(), *rec, e.photos)
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
