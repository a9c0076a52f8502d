package models

import (
	"fmt"
	"time"
)

// Status is the console-side lifecycle state of an advisory.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
)

// WireStatus is the closed status enumeration the remote store keeps.
type WireStatus string

const (
	WireDraft     WireStatus = "Draft"
	WirePublished WireStatus = "Published"
	WireArchived  WireStatus = "Archived"
)

// Priority of an advisory. Rank gives the ordering used when sorting.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	default:
		return 0
	}
}

func (p Priority) Valid() bool { return p.Rank() > 0 }

// Advisory categories.
const (
	CategoryEmergency      = "Emergency Notice"
	CategoryWeather        = "Weather Advisory"
	CategoryEvacuation     = "Evacuation Order"
	CategoryPublicHealth   = "Public Health"
	CategoryInfrastructure = "Infrastructure"
	CategoryGeneral        = "General Information"
)

// Categories is the closed set of advisory categories.
var Categories = []string{
	CategoryEmergency,
	CategoryWeather,
	CategoryEvacuation,
	CategoryPublicHealth,
	CategoryInfrastructure,
	CategoryGeneral,
}

func IsCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

// Advisory wire field names.
const (
	AdvisoryTitle       = "title"
	AdvisoryCategory    = "category"
	AdvisoryPriority    = "priority"
	AdvisoryStatus      = "status"
	AdvisoryContent     = "content"
	AdvisoryExcerpt     = "excerpt"
	AdvisoryIsEmergency = "isEmergency"
	AdvisoryPublishAt   = "publishAt"
	AdvisoryAuthor      = "author"
	AdvisoryTags        = "tags"
)

// Advisory is a public notice moving through draft, scheduled and published.
//
// Archived is set when the store reports the Archived wire status. Such a
// record is shown as a draft and is written back as Archived until its next
// status transition.
type Advisory struct {
	ID          string
	Title       string
	Category    string
	Priority    Priority
	Status      Status
	Content     string
	Excerpt     string
	IsEmergency bool
	PublishAt   *time.Time
	Author      string
	Tags        []string
	Archived    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (a Advisory) GetID() string { return a.ID }

// FieldValue exposes fields by wire name for filtering and sorting.
func (a Advisory) FieldValue(name string) any {
	switch name {
	case FieldID:
		return a.ID
	case AdvisoryTitle:
		return a.Title
	case AdvisoryCategory:
		return a.Category
	case AdvisoryPriority:
		return a.Priority
	case AdvisoryStatus:
		return a.Status
	case AdvisoryContent:
		return a.Content
	case AdvisoryExcerpt:
		return a.Excerpt
	case AdvisoryIsEmergency:
		return a.IsEmergency
	case AdvisoryPublishAt:
		return a.PublishAt
	case AdvisoryAuthor:
		return a.Author
	case FieldCreatedAt:
		return a.CreatedAt
	case FieldUpdatedAt:
		return a.UpdatedAt
	default:
		return nil
	}
}

// ToWireStatus maps a console status onto the store enumeration.
// Draft and scheduled both persist as Draft; scheduled keeps its publishAt.
func ToWireStatus(s Status, archived bool) WireStatus {
	switch s {
	case StatusPublished:
		return WirePublished
	default:
		if archived && s == StatusDraft {
			return WireArchived
		}
		return WireDraft
	}
}

// FromWireStatus is the inverse mapping. A Draft with a publishAt is a
// scheduled advisory; Archived reads as a draft.
func FromWireStatus(w WireStatus, publishAt *time.Time) (Status, bool, error) {
	switch w {
	case WirePublished:
		return StatusPublished, false, nil
	case WireDraft, "":
		if publishAt != nil {
			return StatusScheduled, false, nil
		}
		return StatusDraft, false, nil
	case WireArchived:
		return StatusDraft, true, nil
	default:
		return "", false, fmt.Errorf("unknown wire status %q", w)
	}
}

// AdvisoryCodec converts between Resource and Advisory.
type AdvisoryCodec struct{}

func (AdvisoryCodec) Decode(r Resource) (Advisory, error) {
	a := Advisory{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}

	var err error
	if a.Title, err = r.String(AdvisoryTitle); err != nil {
		return Advisory{}, err
	}
	if a.Category, err = r.String(AdvisoryCategory); err != nil {
		return Advisory{}, err
	}
	priority, err := r.String(AdvisoryPriority)
	if err != nil {
		return Advisory{}, err
	}
	a.Priority = Priority(priority)
	if a.Content, err = r.String(AdvisoryContent); err != nil {
		return Advisory{}, err
	}
	if a.Excerpt, err = r.String(AdvisoryExcerpt); err != nil {
		return Advisory{}, err
	}
	if a.IsEmergency, err = r.Bool(AdvisoryIsEmergency); err != nil {
		return Advisory{}, err
	}
	if a.PublishAt, err = r.Time(AdvisoryPublishAt); err != nil {
		return Advisory{}, err
	}
	if a.Author, err = r.String(AdvisoryAuthor); err != nil {
		return Advisory{}, err
	}
	if a.Tags, err = r.Strings(AdvisoryTags); err != nil {
		return Advisory{}, err
	}

	wire, err := r.String(AdvisoryStatus)
	if err != nil {
		return Advisory{}, err
	}
	a.Status, a.Archived, err = FromWireStatus(WireStatus(wire), a.PublishAt)
	if err != nil {
		return Advisory{}, fmt.Errorf("advisory %s: %w", r.ID, err)
	}
	return a, nil
}

// Encode produces the full writable field set. A draft always sends a null
// publishAt, otherwise it would read back as scheduled.
func (AdvisoryCodec) Encode(a Advisory) map[string]any {
	publishAt := a.PublishAt
	if a.Status == StatusDraft {
		publishAt = nil
	}
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		AdvisoryTitle:       a.Title,
		AdvisoryCategory:    a.Category,
		AdvisoryPriority:    string(a.Priority),
		AdvisoryStatus:      string(ToWireStatus(a.Status, a.Archived)),
		AdvisoryContent:     a.Content,
		AdvisoryExcerpt:     a.Excerpt,
		AdvisoryIsEmergency: a.IsEmergency,
		AdvisoryPublishAt:   FormatTime(publishAt),
		AdvisoryAuthor:      a.Author,
		AdvisoryTags:        StringList(tags),
	}
}
