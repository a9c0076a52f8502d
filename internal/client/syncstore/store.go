package syncstore

import (
	"context"
	"errors"
	"sync"

	"github.com/civicops/drconsole/internal/logging"
)

// Store is the local mirror of one remote collection.
type Store[T Record] struct {
	collection string
	client     Client[T]
	logger     logging.Logger

	mu       sync.RWMutex
	items    []T
	err      error
	issued   uint64
	inFlight int
}

// New returns an empty store for collection backed by client.
func New[T Record](collection string, client Client[T], logger logging.Logger) *Store[T] {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Store[T]{
		collection: collection,
		client:     client,
		logger:     logger.With("module", "syncstore", "collection", collection),
	}
}

// Collection returns the remote collection name.
func (s *Store[T]) Collection() string { return s.collection }

// Items returns a copy of the mirror in display order.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the record with id, if mirrored.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

// Loading reports whether any Fetch is in flight.
func (s *Store[T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight > 0
}

// Err returns the error of the last applied Fetch, or nil.
func (s *Store[T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Fetch replaces the mirror with the remote result for filters.
//
// On failure the previous items are kept and Err reports the failure. A
// result that resolves after a newer Fetch was issued is discarded and
// Fetch returns nil for it; the newer call reports its own outcome.
func (s *Store[T]) Fetch(ctx context.Context, filters Filters) error {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.inFlight++
	s.err = nil
	s.mu.Unlock()

	items, err := s.client.List(ctx, filters)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--

	if seq != s.issued {
		s.logger.Debug(ctx, "discarding superseded fetch", "seq", seq, "latest", s.issued)
		return nil
	}

	if err != nil {
		s.err = s.wrap(OpList, "", err)
		s.logger.Warn(ctx, "fetch failed", "error", err)
		return s.err
	}

	s.items = items
	s.logger.Debug(ctx, "fetched", "count", len(items))
	return nil
}

// Create sends draft to the remote store and prepends the confirmed record.
func (s *Store[T]) Create(ctx context.Context, draft T) (T, error) {
	created, err := s.client.Create(ctx, draft)
	if err != nil {
		var zero T
		s.logger.Warn(ctx, "create failed", "error", err)
		return zero, s.wrap(OpCreate, "", err)
	}

	s.mu.Lock()
	items := make([]T, 0, len(s.items)+1)
	items = append(items, created)
	s.items = append(items, s.items...)
	s.mu.Unlock()

	s.logger.Info(context.WithoutCancel(ctx), "created", "id", created.GetID())
	return created, nil
}

// Update sends patch for id and swaps in the confirmed record at the same
// position. An id that is not mirrored fails without a remote call.
func (s *Store[T]) Update(ctx context.Context, id string, patch Patch) (T, error) {
	var zero T
	if _, ok := s.Get(id); !ok {
		return zero, newNotFoundError(OpUpdate, s.collection, id)
	}

	updated, err := s.client.Update(ctx, id, patch)
	if err != nil {
		s.logger.Warn(ctx, "update failed", "id", id, "error", err)
		return zero, s.wrap(OpUpdate, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		// A fetch replaced the list while the update was in flight.
		s.logger.Warn(ctx, "updated record no longer mirrored", "id", id)
		return updated, nil
	}
	items := make([]T, len(s.items))
	copy(items, s.items)
	items[i] = updated
	s.items = items

	s.logger.Info(ctx, "updated", "id", id)
	return updated, nil
}

// Delete removes id remotely, then locally. An id that is not mirrored
// fails without a remote call.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if _, ok := s.Get(id); !ok {
		return newNotFoundError(OpDelete, s.collection, id)
	}

	if err := s.client.Delete(ctx, id); err != nil {
		s.logger.Warn(ctx, "delete failed", "id", id, "error", err)
		return s.wrap(OpDelete, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		items := make([]T, 0, len(s.items)-1)
		items = append(items, s.items[:i]...)
		s.items = append(items, s.items[i+1:]...)
	}

	s.logger.Info(ctx, "deleted", "id", id)
	return nil
}

// indexOf must be called with mu held.
func (s *Store[T]) indexOf(id string) int {
	for i, item := range s.items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}

func (s *Store[T]) wrap(op, id string, err error) error {
	var re *RemoteOperationError
	if errors.As(err, &re) {
		return re
	}
	return newRemoteError(op, s.collection, id, err)
}
