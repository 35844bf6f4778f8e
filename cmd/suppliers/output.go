package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/veo1/supplier-registry/app/photo"
	"github.com/veo1/supplier-registry/models"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRecordTable(w io.Writer, recs []models.Record) error {
	writer := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintln(writer, "ID\tNAME\tADDRESS\tCONTACT\tCATEGORIES")
	for _, rec := range recs {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			rec.ID, rec.Name, rec.Address, rec.Contact, strings.Join(rec.Categories.Names(), ", "))
	}
	return writer.Flush()
}

func writeRecordDetail(w io.Writer, rec models.Record, photos *photo.Cache) error {
	categories := "none"
	if len(rec.Categories) > 0 {
		categories = strings.Join(rec.Categories.Names(), ", ")
	}

	picture := "none"
	if rec.HasPhoto() {
		picture = *rec.ImageURI
		if photos != nil {
			if path, ok := photos.Resolve(*rec.ImageURI); ok {
				picture = path
			} else {
				picture += " (image unavailable)"
			}
		}
	}

	writer := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintf(writer, "ID\t%s\n", rec.ID)
	fmt.Fprintf(writer, "Name\t%s\n", rec.Name)
	fmt.Fprintf(writer, "Address\t%s\n", rec.Address)
	fmt.Fprintf(writer, "Contact\t%s\n", rec.Contact)
	fmt.Fprintf(writer, "Categories\t%s\n", categories)
	fmt.Fprintf(writer, "Photo\t%s\n", picture)
	return writer.Flush()
}
