package services

import (
	"context"
	"database/sql"
	"fmt"

	cm "github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/common"
	"github.com/civicops/drconsole/internal/logging"
	"github.com/civicops/drconsole/internal/server/models"
	"github.com/civicops/drconsole/internal/server/repositories/repomanager"
)

// ResourceService validates and stores collection records.
type ResourceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewResourceService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ResourceService {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &ResourceService{db: db, repomanager: m, logger: logger.With("module", "resource_service")}
}

// List returns the collection's records matching every filter, newest first.
func (s *ResourceService) List(ctx context.Context, collection string, filters map[string]string) ([]models.Record, error) {
	if !common.IsKnownCollection(collection) {
		return nil, fmt.Errorf("%w: %q", common.ErrorUnknownCollection, collection)
	}
	return s.repomanager.Records(s.db).List(ctx, collection, filters)
}

// Create stores a new record. author is the operator issuing the call; an
// advisory without an author is stamped with it.
func (s *ResourceService) Create(ctx context.Context, author, collection string, fields map[string]any) (*models.Record, error) {
	doc := stripReserved(fields)
	if collection == common.CollectionAdvisories {
		if a, _ := doc[cm.AdvisoryAuthor].(string); a == "" && author != "" {
			doc[cm.AdvisoryAuthor] = author
		}
		if doc[cm.AdvisoryStatus] == nil {
			doc[cm.AdvisoryStatus] = string(cm.WireDraft)
		}
	}
	if err := validate(collection, doc, false); err != nil {
		return nil, err
	}

	rec, err := s.repomanager.Records(s.db).Insert(ctx, collection, doc)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "record created", "collection", collection, "id", rec.ID)
	return rec, nil
}

// Update merges patch into the record. Only the keys present in patch are
// validated.
func (s *ResourceService) Update(ctx context.Context, collection, id string, patch map[string]any) (*models.Record, error) {
	doc := stripReserved(patch)
	if err := validate(collection, doc, true); err != nil {
		return nil, err
	}

	rec, err := s.repomanager.Records(s.db).Update(ctx, collection, id, doc)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", id, err)
	}
	s.logger.Info(ctx, "record updated", "collection", collection, "id", id)
	return rec, nil
}

// Delete removes the record permanently.
func (s *ResourceService) Delete(ctx context.Context, collection, id string) error {
	if !common.IsKnownCollection(collection) {
		return fmt.Errorf("%w: %q", common.ErrorUnknownCollection, collection)
	}
	if err := s.repomanager.Records(s.db).Delete(ctx, collection, id); err != nil {
		return fmt.Errorf("record %s: %w", id, err)
	}
	s.logger.Info(ctx, "record deleted", "collection", collection, "id", id)
	return nil
}
