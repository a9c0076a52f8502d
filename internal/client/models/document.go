package models

import "time"

// Document resource wire field names.
const (
	DocumentTitle       = "title"
	DocumentDescription = "description"
	DocumentKey         = "documentKey"
)

// Document is an entry in the resources collection: a downloadable file
// such as a shelter map or a form. Key is the object storage key, empty
// until a file has been attached.
type Document struct {
	ID          string
	Title       string
	Description string
	Key         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (d Document) GetID() string { return d.ID }

func (d Document) FieldValue(name string) any {
	switch name {
	case FieldID:
		return d.ID
	case DocumentTitle:
		return d.Title
	case DocumentDescription:
		return d.Description
	case DocumentKey:
		return d.Key
	case FieldCreatedAt:
		return d.CreatedAt
	case FieldUpdatedAt:
		return d.UpdatedAt
	default:
		return nil
	}
}

type DocumentCodec struct{}

func (DocumentCodec) Decode(r Resource) (Document, error) {
	d := Document{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
	var err error
	if d.Title, err = r.String(DocumentTitle); err != nil {
		return Document{}, err
	}
	if d.Description, err = r.String(DocumentDescription); err != nil {
		return Document{}, err
	}
	if d.Key, err = r.String(DocumentKey); err != nil {
		return Document{}, err
	}
	return d, nil
}

func (DocumentCodec) Encode(d Document) map[string]any {
	out := map[string]any{
		DocumentTitle:       d.Title,
		DocumentDescription: d.Description,
	}
	if d.Key != "" {
		out[DocumentKey] = d.Key
	}
	return out
}
