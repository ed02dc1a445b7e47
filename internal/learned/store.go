package learned

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when an answer id does not exist.
	ErrNotFound = errors.New("learned answer not found")
	// ErrStoreNotConfigured is returned by writes when no durable store is set up.
	ErrStoreNotConfigured = errors.New("durable store is not configured")
	// ErrInvalidInput is returned when a question or answer is blank.
	ErrInvalidInput = errors.New("question and answer are required")
)

// Store is the durable document store backing the cache.
// Put replaces the whole document stored under a.ID.
type Store interface {
	List(ctx context.Context) ([]Answer, error)
	Get(ctx context.Context, id string) (Answer, error)
	Put(ctx context.Context, a Answer) error
	Delete(ctx context.Context, id string) error
}
