// Package storage provides the durable key-value substrate supplier records are
// persisted to. Any backend that can enumerate keys, read and write batches of
// string values and remove a key satisfies Store.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is returned (wrapped) when the underlying store cannot be reached
// or fails an operation.
var ErrUnavailable = errors.New("storage unavailable")

// Pair is a single key/value entry.
type Pair struct {
	Key   string
	Value string
}

// Store is an asynchronous string key-value store. Methods block until the
// backend answers or ctx is done.
type Store interface {
	// GetAllKeys returns every key in the store, in backend enumeration order.
	GetAllKeys(ctx context.Context) ([]string, error)
	// MultiGet returns the pairs for the keys that exist. Missing keys are omitted.
	MultiGet(ctx context.Context, keys []string) ([]Pair, error)
	// MultiSet upserts all pairs. A key repeated in one batch keeps its last value.
	MultiSet(ctx context.Context, pairs []Pair) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}

// lastWins collapses repeated keys in a batch to their last value, keeping the
// position of the first occurrence.
func lastWins(pairs []Pair) []Pair {
	index := make(map[string]int, len(pairs))
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if i, ok := index[p.Key]; ok {
			out[i].Value = p.Value
			continue
		}
		index[p.Key] = len(out)
		out = append(out, p)
	}
	return out
}

// uniqueKeys drops repeated keys, keeping the first occurrence.
func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
