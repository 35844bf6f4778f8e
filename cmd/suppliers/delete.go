package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veo1/supplier-registry/app/listing"
)

func newDeleteCmd(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a supplier",
		Long:    `Delete a supplier after confirmation. Pass --yes to skip the prompt.`,
		Args:    cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			session := e.newSession()
			if err := session.Reload(cmd.Context()); err != nil {
				return err
			}
			if err := session.Select(args[0]); err != nil {
				return fmt.Errorf("supplier %s: %w", args[0], err)
			}
			confirmation, err := session.RequestDelete()
			if err != nil {
				return err
			}

			choice := listing.ChoiceDelete
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", confirmation.Message)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(answer)) {
				case "y", "yes":
				default:
					choice = listing.ChoiceCancel
				}
			}

			if err := session.ConfirmDelete(cmd.Context(), choice); err != nil {
				return err
			}
			if choice == listing.ChoiceCancel {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", confirmation.RecordID)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}
