// Package records declares the repository contract for collection records
// kept as jsonb documents, one table per collection.
package records

import (
	"context"

	"github.com/civicops/drconsole/internal/server/models"
)

// Repository stores the records of every known collection.
type Repository interface {
	// List returns the records whose data contains every filter pair,
	// newest first.
	List(ctx context.Context, collection string, filters map[string]string) ([]models.Record, error)

	// Insert stores data under a freshly assigned id and returns the stored row.
	Insert(ctx context.Context, collection string, data map[string]any) (*models.Record, error)

	// Update merges patch into the stored data. Keys set to nil are stored
	// as JSON null. A missing id yields common.ErrorNotFound.
	Update(ctx context.Context, collection, id string, patch map[string]any) (*models.Record, error)

	// Delete removes the record. A missing id yields common.ErrorNotFound.
	Delete(ctx context.Context, collection, id string) error
}
