package models

import "time"

// Incident wire field names.
const (
	IncidentTitle       = "title"
	IncidentSeverity    = "severity"
	IncidentStatus      = "status"
	IncidentLocation    = "location"
	IncidentDescription = "description"
)

// Incident statuses.
const (
	IncidentOpen       = "open"
	IncidentMonitoring = "monitoring"
	IncidentResolved   = "resolved"
)

// Incident is a tracked event such as a flood or a road closure.
type Incident struct {
	ID          string
	Title       string
	Severity    Priority
	Status      string
	Location    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (i Incident) GetID() string { return i.ID }

func (i Incident) FieldValue(name string) any {
	switch name {
	case FieldID:
		return i.ID
	case IncidentTitle:
		return i.Title
	case IncidentSeverity:
		return i.Severity
	case IncidentStatus:
		return i.Status
	case IncidentLocation:
		return i.Location
	case IncidentDescription:
		return i.Description
	case FieldCreatedAt:
		return i.CreatedAt
	case FieldUpdatedAt:
		return i.UpdatedAt
	default:
		return nil
	}
}

type IncidentCodec struct{}

func (IncidentCodec) Decode(r Resource) (Incident, error) {
	i := Incident{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
	var err error
	if i.Title, err = r.String(IncidentTitle); err != nil {
		return Incident{}, err
	}
	severity, err := r.String(IncidentSeverity)
	if err != nil {
		return Incident{}, err
	}
	i.Severity = Priority(severity)
	if i.Status, err = r.String(IncidentStatus); err != nil {
		return Incident{}, err
	}
	if i.Location, err = r.String(IncidentLocation); err != nil {
		return Incident{}, err
	}
	if i.Description, err = r.String(IncidentDescription); err != nil {
		return Incident{}, err
	}
	return i, nil
}

func (IncidentCodec) Encode(i Incident) map[string]any {
	return map[string]any{
		IncidentTitle:       i.Title,
		IncidentSeverity:    string(i.Severity),
		IncidentStatus:      i.Status,
		IncidentLocation:    i.Location,
		IncidentDescription: i.Description,
	}
}
