package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/veo1/supplier-registry/models"
)

func newCategoriesCmd(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the supplier categories",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			categories := models.AllCategories()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), categories)
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 0, 3, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME")
			for _, c := range categories {
				fmt.Fprintf(writer, "%d\t%s\n", c.ID, c.Name)
			}
			return writer.Flush()
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
