package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/veo1/supplier-registry/storage"
)

// DefaultKeyPrefix is prepended to a record id to form its store key.
const DefaultKeyPrefix = "record_"

var (
	// ErrStorageUnavailable is returned when the key-value store cannot be reached.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrRecordNotFound is returned when no record has the requested id.
	ErrRecordNotFound = errors.New("record not found")
)

// RecordsRepository keeps one store key per record.
type RecordsRepository struct {
	store  storage.Store
	prefix string
	logger *zap.Logger
}

type RepositoryOption func(*RecordsRepository)

// WithKeyPrefix overrides the key prefix. Data written by the mobile app uses "persona_".
func WithKeyPrefix(prefix string) RepositoryOption {
	return func(r *RecordsRepository) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

func WithLogger(logger *zap.Logger) RepositoryOption {
	return func(r *RecordsRepository) {
		r.logger = logger
	}
}

func NewRecordsRepository(store storage.Store, opts ...RepositoryOption) *RecordsRepository {
	r := &RecordsRepository{
		store:  store,
		prefix: DefaultKeyPrefix,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key returns the store key for id.
func (r *RecordsRepository) Key(id string) string {
	return r.prefix + id
}

// LoadAll returns every stored record in store enumeration order.
// On store failure it returns an empty slice together with the error.
// Values that cannot be decoded are skipped.
func (r *RecordsRepository) LoadAll(ctx context.Context) ([]Record, error) {
	keys, err := r.store.GetAllKeys(ctx)
	if err != nil {
		return []Record{}, wrapStorage(err)
	}

	recordKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.HasPrefix(k, r.prefix) {
			recordKeys = append(recordKeys, k)
		}
	}
	if len(recordKeys) == 0 {
		return []Record{}, nil
	}

	pairs, err := r.store.MultiGet(ctx, recordKeys)
	if err != nil {
		return []Record{}, wrapStorage(err)
	}

	records := make([]Record, 0, len(pairs))
	for _, p := range pairs {
		rec, err := DecodeRecord(p.Value)
		if err != nil {
			r.logger.Warn("skipping undecodable record", zap.String("key", p.Key), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetByID loads a single record.
func (r *RecordsRepository) GetByID(ctx context.Context, id string) (*Record, error) {
	pairs, err := r.store.MultiGet(ctx, []string{r.Key(id)})
	if err != nil {
		return nil, wrapStorage(err)
	}
	if len(pairs) == 0 {
		return nil, ErrRecordNotFound
	}

	rec, err := DecodeRecord(pairs[0].Value)
	if err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	return &rec, nil
}

// SaveOne upserts a single record.
func (r *RecordsRepository) SaveOne(ctx context.Context, rec Record) error {
	return r.SaveMany(ctx, []Record{rec})
}

// SaveMany upserts all records in one store call.
func (r *RecordsRepository) SaveMany(ctx context.Context, recs []Record) error {
	pairs := make([]storage.Pair, len(recs))
	for i, rec := range recs {
		if rec.ID == "" {
			return fmt.Errorf("%w: record without id", ErrValidationFailed)
		}
		value, err := rec.Encode()
		if err != nil {
			return fmt.Errorf("encode record %s: %w", rec.ID, err)
		}
		pairs[i] = storage.Pair{Key: r.Key(rec.ID), Value: value}
	}

	if err := r.store.MultiSet(ctx, pairs); err != nil {
		return wrapStorage(err)
	}
	return nil
}

// DeleteOne removes the record with id. A missing record is not an error.
func (r *RecordsRepository) DeleteOne(ctx context.Context, id string) error {
	if err := r.store.Remove(ctx, r.Key(id)); err != nil {
		return wrapStorage(err)
	}
	return nil
}

func wrapStorage(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
