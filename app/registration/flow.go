// Package registration collects the fields of a new supplier and stores it.
package registration

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veo1/supplier-registry/models"
)

// RecordSaver is the part of the record store registration writes through.
type RecordSaver interface {
	SaveOne(ctx context.Context, rec models.Record) error
}

// Form is the in-progress input of a new supplier.
type Form struct {
	Name       string
	Address    string
	Contact    string
	Categories models.CategorySet
	ImageURI   *string
}

// Flow holds one registration form. It is not safe for concurrent use.
type Flow struct {
	repo   RecordSaver
	newID  func() string
	logger *zap.Logger
	form   Form
}

type Option func(*Flow)

// WithIDGenerator replaces the record id generator.
func WithIDGenerator(gen func() string) Option {
	return func(f *Flow) {
		f.newID = gen
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(f *Flow) {
		f.logger = logger
	}
}

func NewFlow(repo RecordSaver, opts ...Option) *Flow {
	f := &Flow{
		repo:   repo,
		newID:  NewRecordID,
		logger: zap.NewNop(),
		form:   Form{Categories: models.CategorySet{}},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewRecordID returns a time-ordered UUIDv7, derived from the creation timestamp.
func NewRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (f *Flow) SetName(v string)    { f.form.Name = v }
func (f *Flow) SetAddress(v string) { f.form.Address = v }
func (f *Flow) SetContact(v string) { f.form.Contact = v }

// ToggleCategory adds or removes a category of the fixed list.
func (f *Flow) ToggleCategory(id int) error {
	set, err := f.form.Categories.ToggleID(id)
	if err != nil {
		return err
	}
	f.form.Categories = set
	return nil
}

// SetPhoto attaches a cached photo reference. An empty ref clears it.
func (f *Flow) SetPhoto(ref string) {
	if ref == "" {
		f.form.ImageURI = nil
		return
	}
	f.form.ImageURI = &ref
}

// Form returns a copy of the current input.
func (f *Flow) Form() Form {
	out := f.form
	out.Categories = f.form.Categories.Clone()
	if f.form.ImageURI != nil {
		uri := *f.form.ImageURI
		out.ImageURI = &uri
	}
	return out
}

// Reset clears the form.
func (f *Flow) Reset() {
	f.form = Form{Categories: models.CategorySet{}}
}

// Submit validates the form, assigns an id and stores the record.
// Missing fields return models.ErrValidationFailed without touching the store.
// On a store failure the form is kept so the user can retry.
func (f *Flow) Submit(ctx context.Context) (models.Record, error) {
	rec, err := f.Prepare()
	if err != nil {
		return models.Record{}, err
	}
	if err := f.Save(ctx, rec); err != nil {
		return models.Record{}, err
	}
	f.Reset()
	return rec, nil
}

// Prepare builds and validates the record for the current form and assigns its id.
// The form is left untouched.
func (f *Flow) Prepare() (models.Record, error) {
	rec := models.Record{
		Name:       f.form.Name,
		Address:    f.form.Address,
		Contact:    f.form.Contact,
		Categories: f.form.Categories.Clone(),
	}
	if f.form.ImageURI != nil {
		uri := *f.form.ImageURI
		rec.ImageURI = &uri
	}
	if rec.Categories == nil {
		rec.Categories = models.CategorySet{}
	}

	if err := rec.Validate(); err != nil {
		return models.Record{}, err
	}

	rec.ID = f.newID()
	if strings.TrimSpace(rec.ID) == "" {
		rec.ID = NewRecordID()
	}
	return rec, nil
}

// Save stores a prepared record. It never reads or changes the form, so it may
// run off the goroutine that owns the Flow.
func (f *Flow) Save(ctx context.Context, rec models.Record) error {
	if err := f.repo.SaveOne(ctx, rec); err != nil {
		f.logger.Error("failed to save supplier", zap.String("name", rec.Name), zap.Error(err))
		return err
	}

	f.logger.Info("supplier registered",
		zap.String("id", rec.ID),
		zap.Strings("categories", rec.Categories.Names()),
	)
	return nil
}
