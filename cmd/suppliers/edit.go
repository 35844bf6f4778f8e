package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newEditCmd(e *env) *cobra.Command {
	var name, address, contact string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a supplier's name, address or contact",
		Long: `Change a supplier's name, address or contact. Fields that are not
passed keep their value. Categories and photo cannot be changed here.

Examples:
  suppliers edit 0190f3a2-... --address "Rua Nova"`,
		Args: cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("address") && !flags.Changed("contact") {
				return errors.New("nothing to change: pass --name, --address or --contact")
			}

			session := e.newSession()
			if err := session.Reload(cmd.Context()); err != nil {
				return err
			}
			if err := session.Select(args[0]); err != nil {
				return fmt.Errorf("supplier %s: %w", args[0], err)
			}
			if err := session.BeginEdit(); err != nil {
				return err
			}
			if flags.Changed("name") {
				if err := session.SetDraftName(name); err != nil {
					return err
				}
			}
			if flags.Changed("address") {
				if err := session.SetDraftAddress(address); err != nil {
					return err
				}
			}
			if flags.Changed("contact") {
				if err := session.SetDraftContact(contact); err != nil {
					return err
				}
			}

			rec, err := session.SaveEdit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", rec.Name, rec.ID)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&address, "address", "a", "", "new address")
	cmd.Flags().StringVarP(&contact, "contact", "t", "", "new phone or e-mail")
	return cmd
}
