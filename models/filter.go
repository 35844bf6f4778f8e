package models

import (
	"strings"

	"golang.org/x/text/cases"
)

// RecordFilters narrows a record list. Both conditions must hold.
type RecordFilters struct {
	// SearchTerm matches name, address or contact, ignoring case. Empty matches everything.
	SearchTerm string
	// CategoryID, when set, requires the record to carry that category.
	CategoryID *int
}

// FilterRecords returns copies of the records matching f. The input is left untouched.
func FilterRecords(records []Record, f RecordFilters) []Record {
	fold := cases.Fold()
	term := fold.String(f.SearchTerm)

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if term != "" && !matchesTerm(fold, rec, term) {
			continue
		}
		if f.CategoryID != nil && !rec.Categories.Contains(*f.CategoryID) {
			continue
		}
		out = append(out, rec.Clone())
	}
	return out
}

func matchesTerm(fold cases.Caser, rec Record, term string) bool {
	for _, field := range []string{rec.Name, rec.Address, rec.Contact} {
		if strings.Contains(fold.String(field), term) {
			return true
		}
	}
	return false
}
