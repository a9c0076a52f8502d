// Package models defines server-side data models persisted in the database.
package models

import "time"

// Record is one row of a collection table. Data holds the collection's
// fields as stored in the jsonb column.
type Record struct {
	ID        string
	Data      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}
