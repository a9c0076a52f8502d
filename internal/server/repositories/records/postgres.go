package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/civicops/drconsole/internal/common"
	"github.com/civicops/drconsole/internal/dbx"
	"github.com/civicops/drconsole/internal/server/models"
	"github.com/google/uuid"
)

// newID is a seam for tests.
var newID = uuid.NewString

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// table maps a collection onto its table. Only known collections are
// accepted, so the name is safe to splice into the statement.
func table(collection string) (string, error) {
	if !common.IsKnownCollection(collection) {
		return "", fmt.Errorf("%w: %q", common.ErrorUnknownCollection, collection)
	}
	return collection, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.Record, error) {
	var (
		rec models.Record
		raw []byte
	)
	if err := row.Scan(&rec.ID, &raw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &rec.Data); err != nil {
		return nil, fmt.Errorf("decode data of %s: %w", rec.ID, err)
	}
	if rec.Data == nil {
		rec.Data = map[string]any{}
	}
	return &rec, nil
}

func (r *PostgresRepository) List(ctx context.Context, collection string, filters map[string]string) ([]models.Record, error) {
	t, err := table(collection)
	if err != nil {
		return nil, err
	}

	if filters == nil {
		filters = map[string]string{}
	}
	filter, err := json.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("encode filters: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, data, created_at, updated_at FROM %s
		 WHERE data @> $1::jsonb
		 ORDER BY created_at DESC, id`, t)

	rows, err := r.db.QueryContext(ctx, query, string(filter))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, collection string, data map[string]any) (*models.Record, error) {
	t, err := table(collection)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]any{}
	}
	doc, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode data: %w", err)
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (id, data)
		 VALUES ($1, $2::jsonb)
		 RETURNING id, data, created_at, updated_at`, t)

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, newID(), string(doc)))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Update(ctx context.Context, collection, id string, patch map[string]any) (*models.Record, error) {
	t, err := table(collection)
	if err != nil {
		return nil, err
	}
	if patch == nil {
		patch = map[string]any{}
	}
	doc, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}

	query := fmt.Sprintf(
		`UPDATE %s SET data = data || $2::jsonb, updated_at = now()
		 WHERE id = $1
		 RETURNING id, data, created_at, updated_at`, t)

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id, string(doc)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, collection, id string) error {
	t, err := table(collection)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}
