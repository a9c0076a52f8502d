package syncstore

import (
	"context"

	"github.com/civicops/drconsole/internal/client/models"
)

// Record is anything the store can mirror: it only needs a stable id.
type Record interface {
	GetID() string
}

// Filters are passed verbatim to the remote list query.
type Filters map[string]string

// Patch holds the wire fields to change on update.
type Patch map[string]any

// Client is the typed remote endpoint family for one collection.
type Client[T Record] interface {
	List(ctx context.Context, filters Filters) ([]T, error)
	Create(ctx context.Context, draft T) (T, error)
	Update(ctx context.Context, id string, patch Patch) (T, error)
	Delete(ctx context.Context, id string) error
}

// RemoteResourceClient is the untyped remote store, addressed by collection
// name. The gRPC client implements it.
type RemoteResourceClient interface {
	List(ctx context.Context, collection string, filters map[string]string) ([]models.Resource, error)
	Create(ctx context.Context, collection string, fields map[string]any) (models.Resource, error)
	Update(ctx context.Context, collection, id string, patch map[string]any) (models.Resource, error)
	Delete(ctx context.Context, collection, id string) error
}

// Codec maps a typed record to and from the wire envelope.
type Codec[T any] interface {
	Decode(r models.Resource) (T, error)
	Encode(v T) map[string]any
}

// Remote binds a RemoteResourceClient to one collection and a codec.
type Remote[T Record] struct {
	api        RemoteResourceClient
	collection string
	codec      Codec[T]
}

func NewRemote[T Record](api RemoteResourceClient, collection string, codec Codec[T]) *Remote[T] {
	return &Remote[T]{api: api, collection: collection, codec: codec}
}

func (r *Remote[T]) List(ctx context.Context, filters Filters) ([]T, error) {
	rows, err := r.api.List(ctx, r.collection, filters)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		v, err := r.codec.Decode(row)
		if err != nil {
			return nil, &RemoteOperationError{Code: CodeDecode, Op: OpList, Collection: r.collection, ID: row.ID, Err: err}
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *Remote[T]) Create(ctx context.Context, draft T) (T, error) {
	row, err := r.api.Create(ctx, r.collection, r.codec.Encode(draft))
	if err != nil {
		var zero T
		return zero, err
	}
	return r.decode(OpCreate, row)
}

func (r *Remote[T]) Update(ctx context.Context, id string, patch Patch) (T, error) {
	row, err := r.api.Update(ctx, r.collection, id, patch)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.decode(OpUpdate, row)
}

func (r *Remote[T]) Delete(ctx context.Context, id string) error {
	return r.api.Delete(ctx, r.collection, id)
}

func (r *Remote[T]) decode(op string, row models.Resource) (T, error) {
	v, err := r.codec.Decode(row)
	if err != nil {
		var zero T
		return zero, &RemoteOperationError{Code: CodeDecode, Op: op, Collection: r.collection, ID: row.ID, Err: err}
	}
	return v, nil
}
