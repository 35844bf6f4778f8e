// Package listing browses stored suppliers and drives the view, edit and delete steps.
package listing

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/veo1/supplier-registry/models"
)

var (
	// ErrBusy is returned while another store operation of the session is in flight.
	ErrBusy = errors.New("another operation is in progress")
	// ErrInvalidState is returned when an action does not apply to the current state.
	ErrInvalidState = errors.New("operation not valid in current state")
)

// RecordStore is the part of the record repository a session needs.
type RecordStore interface {
	LoadAll(ctx context.Context) ([]models.Record, error)
	SaveMany(ctx context.Context, recs []models.Record) error
	DeleteOne(ctx context.Context, id string) error
}

type State int

const (
	StateBrowsing State = iota
	StateViewing
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateBrowsing:
		return "browsing"
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Choice is an answer to a delete confirmation.
type Choice int

const (
	ChoiceCancel Choice = iota
	ChoiceDelete
)

func (c Choice) String() string {
	if c == ChoiceDelete {
		return "Delete"
	}
	return "Cancel"
}

// Confirmation asks the user to confirm deleting the viewed record.
type Confirmation struct {
	RecordID string
	Message  string
	Choices  []Choice
}

// Session keeps the loaded list, the active filters and the
// viewed and draft slots. Viewed and draft are independent copies.
//
// Methods are safe to call from multiple goroutines. The lock is not held
// during store calls; a second store operation started meanwhile gets ErrBusy.
type Session struct {
	mu      sync.Mutex
	store   RecordStore
	logger  *zap.Logger
	records []models.Record
	filters models.RecordFilters
	state   State
	viewed  *models.Record
	draft   *models.Record
	pending string
	busy    bool
}

type Option func(*Session)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func NewSession(store RecordStore, opts ...Option) *Session {
	s := &Session{
		store:   store,
		logger:  zap.NewNop(),
		records: []models.Record{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether a store operation is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Reload replaces the in-memory list with the store contents.
// On failure the previous list is kept and the error is returned.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	s.mu.Unlock()

	records, err := s.store.LoadAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		s.logger.Error("failed to load suppliers", zap.Error(err))
		return err
	}

	s.records = records
	if s.state == StateViewing {
		if rec, ok := s.find(s.viewed.ID); ok {
			fresh := rec.Clone()
			s.viewed = &fresh
		} else {
			s.viewed = nil
			s.pending = ""
			s.state = StateBrowsing
		}
	}
	s.logger.Debug("suppliers loaded", zap.Int("count", len(records)))
	return nil
}

// SetSearchTerm sets the text filter. An empty term matches everything.
func (s *Session) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.SearchTerm = term
}

// SetCategory sets the category filter; nil clears it.
func (s *Session) SetCategory(id *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == nil {
		s.filters.CategoryID = nil
		return nil
	}
	if _, ok := models.CategoryByID(*id); !ok {
		return models.ErrUnknownCategory
	}
	v := *id
	s.filters.CategoryID = &v
	return nil
}

func (s *Session) Filters() models.RecordFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := models.RecordFilters{SearchTerm: s.filters.SearchTerm}
	if s.filters.CategoryID != nil {
		v := *s.filters.CategoryID
		f.CategoryID = &v
	}
	return f
}

// Records returns a copy of the whole loaded list.
func (s *Session) Records() []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.FilterRecords(s.records, models.RecordFilters{})
}

// Visible returns the loaded records matching the active filters.
func (s *Session) Visible() []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.FilterRecords(s.records, s.filters)
}

// Select snapshots the record with id into the viewed slot.
func (s *Session) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(StateBrowsing, StateViewing); err != nil {
		return err
	}

	rec, ok := s.find(id)
	if !ok {
		return models.ErrRecordNotFound
	}
	viewed := rec.Clone()
	s.viewed = &viewed
	s.pending = ""
	s.state = StateViewing
	return nil
}

// Viewed returns a copy of the viewed record.
func (s *Session) Viewed() (models.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewed == nil {
		return models.Record{}, false
	}
	return s.viewed.Clone(), true
}

// Close leaves the detail view.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(StateViewing); err != nil {
		return err
	}
	s.viewed = nil
	s.pending = ""
	s.state = StateBrowsing
	return nil
}

// BeginEdit copies the viewed record into the draft slot.
func (s *Session) BeginEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(StateViewing); err != nil {
		return err
	}
	draft := s.viewed.Clone()
	s.draft = &draft
	s.pending = ""
	s.state = StateEditing
	return nil
}

func (s *Session) SetDraftName(v string) error {
	return s.editDraft(func(r *models.Record) { r.Name = v })
}

func (s *Session) SetDraftAddress(v string) error {
	return s.editDraft(func(r *models.Record) { r.Address = v })
}

func (s *Session) SetDraftContact(v string) error {
	return s.editDraft(func(r *models.Record) { r.Contact = v })
}

func (s *Session) editDraft(apply func(*models.Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(StateEditing); err != nil {
		return err
	}
	apply(s.draft)
	return nil
}

// Draft returns a copy of the record being edited.
func (s *Session) Draft() (models.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return models.Record{}, false
	}
	return s.draft.Clone(), true
}

// SaveEdit writes the draft to the store. On success the loaded list and the
// viewed slot take the new values and the session returns to viewing.
// On failure the session stays in editing with the draft intact.
func (s *Session) SaveEdit(ctx context.Context) (models.Record, error) {
	s.mu.Lock()
	if err := s.check(StateEditing); err != nil {
		s.mu.Unlock()
		return models.Record{}, err
	}
	draft := s.draft.Clone()
	if err := draft.Validate(); err != nil {
		s.mu.Unlock()
		return models.Record{}, err
	}
	s.busy = true
	s.mu.Unlock()

	err := s.store.SaveMany(ctx, []models.Record{draft})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		s.logger.Error("failed to save supplier", zap.String("id", draft.ID), zap.Error(err))
		return models.Record{}, err
	}

	if i := s.index(draft.ID); i >= 0 {
		s.records[i] = draft.Clone()
	} else {
		s.records = append(s.records, draft.Clone())
	}
	viewed := draft.Clone()
	s.viewed = &viewed
	s.draft = nil
	s.state = StateViewing
	s.logger.Info("supplier updated", zap.String("id", draft.ID))
	return draft, nil
}

// CancelEdit drops the draft and returns to viewing.
func (s *Session) CancelEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(StateEditing); err != nil {
		return err
	}
	s.draft = nil
	s.state = StateViewing
	return nil
}

// RequestDelete asks for confirmation before removing the viewed record.
func (s *Session) RequestDelete() (Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(StateViewing); err != nil {
		return Confirmation{}, err
	}
	s.pending = s.viewed.ID
	return Confirmation{
		RecordID: s.viewed.ID,
		Message:  fmt.Sprintf("Delete supplier %q? This cannot be undone.", s.viewed.Name),
		Choices:  []Choice{ChoiceCancel, ChoiceDelete},
	}, nil
}

// PendingDelete reports whether a delete confirmation is open.
func (s *Session) PendingDelete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != ""
}

// ConfirmDelete answers the open confirmation. ChoiceCancel leaves everything
// as it was. ChoiceDelete removes the record from the store and, once that
// succeeds, from the loaded list, then returns to browsing.
func (s *Session) ConfirmDelete(ctx context.Context, choice Choice) error {
	s.mu.Lock()
	if err := s.check(StateViewing); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.pending == "" {
		s.mu.Unlock()
		return ErrInvalidState
	}
	id := s.pending
	s.pending = ""
	if choice != ChoiceDelete {
		s.mu.Unlock()
		return nil
	}
	s.busy = true
	s.mu.Unlock()

	err := s.store.DeleteOne(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		s.logger.Error("failed to delete supplier", zap.String("id", id), zap.Error(err))
		return err
	}

	s.records = slices.DeleteFunc(s.records, func(r models.Record) bool { return r.ID == id })
	s.viewed = nil
	s.state = StateBrowsing
	s.logger.Info("supplier deleted", zap.String("id", id))
	return nil
}

// check must be called with mu held.
func (s *Session) check(allowed ...State) error {
	if s.busy {
		return ErrBusy
	}
	if !slices.Contains(allowed, s.state) {
		return fmt.Errorf("%w: %s", ErrInvalidState, s.state)
	}
	return nil
}

func (s *Session) index(id string) int {
	return slices.IndexFunc(s.records, func(r models.Record) bool { return r.ID == id })
}

func (s *Session) find(id string) (models.Record, bool) {
	if i := s.index(id); i >= 0 {
		return s.records[i], true
	}
	return models.Record{}, false
}
