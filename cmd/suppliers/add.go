package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veo1/supplier-registry/models"
)

func newAddCmd(e *env) *cobra.Command {
	var (
		name        string
		address     string
		contact     string
		photoPath   string
		categoryIDs []int
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a supplier",
		Long: `Register a new supplier. Name, address and contact are required.

Examples:
  suppliers add --name Ana --address "Rua A" --contact 123
  suppliers add -n Ana -a "Rua A" -t 123 --category 2 --category 5
  suppliers add -n Ana -a "Rua A" -t 123 --photo ~/Pictures/shop.jpg`,
		Args: cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			categories, err := models.CategoriesFromIDs(categoryIDs)
			if err != nil {
				return fmt.Errorf("%w: %v (see 'suppliers categories')", err, categoryIDs)
			}

			flow := e.newFlow()
			flow.SetName(name)
			flow.SetAddress(address)
			flow.SetContact(contact)
			for _, c := range categories {
				if err := flow.ToggleCategory(c.ID); err != nil {
					return err
				}
			}
			if photoPath != "" {
				// Validate before copying so a rejected form leaves no cached file.
				if _, err := flow.Prepare(); err != nil {
					return err
				}
				ref, err := e.photos.Import(photoPath)
				if err != nil {
					return fmt.Errorf("attach photo: %w", err)
				}
				flow.SetPhoto(ref)
			}

			rec, err := flow.Submit(cmd.Context())
			if err != nil {
				if form := flow.Form(); form.ImageURI != nil {
					_ = e.photos.Discard(*form.ImageURI)
				}
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", rec.Name, rec.ID)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "supplier name")
	cmd.Flags().StringVarP(&address, "address", "a", "", "supplier address")
	cmd.Flags().StringVarP(&contact, "contact", "t", "", "phone or e-mail")
	cmd.Flags().IntSliceVar(&categoryIDs, "category", nil, "category id, repeatable")
	cmd.Flags().StringVar(&photoPath, "photo", "", "image file to attach")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored record as JSON")
	return cmd
}
