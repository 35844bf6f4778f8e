package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidationFailed is returned when a record misses a required field
// or carries a category outside the fixed list.
var ErrValidationFailed = errors.New("validation failed")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Record represents a supplier.
// The JSON layout is the stored value format and must not change:
// {"id","name","address","contact","category":[{"id","name"}],"imageURI"}.
type Record struct {
	ID         string      `json:"id"`
	Name       string      `json:"name" validate:"required"`
	Address    string      `json:"address" validate:"required"`
	Contact    string      `json:"contact" validate:"required"`
	Categories CategorySet `json:"category"`
	ImageURI   *string     `json:"imageURI"`
}

// Validate checks the required fields and the category set.
func (r Record) Validate() error {
	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make([]string, len(fieldErrs))
			for i, fe := range fieldErrs {
				fields[i] = strings.ToLower(fe.Field())
			}
			return fmt.Errorf("%w: missing %s", ErrValidationFailed, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	if !r.Categories.Known() {
		return fmt.Errorf("%w: %w", ErrValidationFailed, ErrUnknownCategory)
	}
	return nil
}

// Clone returns a deep copy sharing no memory with r.
func (r Record) Clone() Record {
	out := r
	out.Categories = r.Categories.Clone()
	if r.ImageURI != nil {
		uri := *r.ImageURI
		out.ImageURI = &uri
	}
	return out
}

// HasPhoto reports whether a photo reference is attached.
func (r Record) HasPhoto() bool {
	return r.ImageURI != nil && *r.ImageURI != ""
}

// Encode serializes the record into its stored form. HTML characters are kept
// literal, matching values written by the mobile app.
func (r Record) Encode() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// DecodeRecord parses a stored value.
func DecodeRecord(value string) (Record, error) {
	var r Record
	if err := json.Unmarshal([]byte(value), &r); err != nil {
		return Record{}, err
	}
	return r, nil
}
