// Package syncstore keeps an in-memory mirror of one remote collection.
//
// # Overview
//
// Store[T] owns the ordered list of records for a collection and changes it
// only after the remote store confirms an operation:
//
//   - Fetch replaces the list wholesale; a failure keeps the last good list.
//   - Create prepends the server-confirmed record.
//   - Update replaces the record with the same id in place.
//   - Delete removes exactly the record with that id.
//
// Nothing is inserted optimistically, so a failed call never leaves a ghost
// entry behind.
//
// # Concurrency
//
// Store is safe for concurrent use. Calls are not coalesced: callers keep at
// most one mutation in flight per id. Overlapping Fetch calls are ordered by
// a sequence number taken when each call starts; a result is applied only if
// no later Fetch has been issued since, so a slow early response can never
// overwrite a newer one.
//
// Typical Usage
//
//	remote := syncstore.NewRemote[models.Advisory](api, common.CollectionAdvisories, models.AdvisoryCodec{})
//	store := syncstore.New[models.Advisory](common.CollectionAdvisories, remote, logger)
//	_ = store.Fetch(ctx, nil)
//	created, err := store.Create(ctx, draft)
package syncstore
