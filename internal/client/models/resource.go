// Package models defines the records the console mirrors from the remote
// store: the generic Resource envelope and the typed views decoded from it.
package models

import (
	"fmt"
	"time"
)

// Wire names of the envelope fields every collection shares.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Resource is one record as the remote store returns it. ID is assigned by
// the store on create and never changes afterwards.
type Resource struct {
	ID        string
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r Resource) GetID() string { return r.ID }

// String returns the named field as a string; missing or null gives "".
func (r Resource) String(name string) (string, error) {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fieldTypeError(name, "string", v)
	}
	return s, nil
}

// Bool returns the named field as a bool; missing or null gives false.
func (r Resource) Bool(name string) (bool, error) {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fieldTypeError(name, "bool", v)
	}
	return b, nil
}

// Int returns the named numeric field. JSON numbers arrive as float64.
func (r Resource) Int(name string) (int, error) {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return 0, nil
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	default:
		return 0, fieldTypeError(name, "number", v)
	}
}

// Time parses the named RFC 3339 field. Missing, null or "" gives nil.
func (r Resource) Time(name string) (*time.Time, error) {
	s, err := r.String(name)
	if err != nil || s == "" {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	return &t, nil
}

// Strings returns the named list field as []string.
func (r Resource) Strings(name string) ([]string, error) {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fieldTypeError(name, "list of strings", v)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fieldTypeError(name, "list", v)
	}
}

func fieldTypeError(name, want string, got any) error {
	return fmt.Errorf("field %q: want %s, got %T", name, want, got)
}

// FormatTime renders t the way the wire expects; nil becomes a JSON null.
func FormatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// StringList converts tags to the []any shape the wire encoder accepts.
func StringList(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
