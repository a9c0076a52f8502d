package publication

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/civicops/drconsole/internal/client/models"
)

// Action names a lifecycle operation.
type Action string

const (
	ActionPublish    Action = "publish"
	ActionSchedule   Action = "schedule"
	ActionPublishDue Action = "publish due"
	ActionUnpublish  Action = "unpublish"
	ActionSave       Action = "save"
)

const (
	// MinContentLength is the shortest content that may be published.
	MinContentLength = 50

	// ExcerptLength bounds a derived excerpt, in runes.
	ExcerptLength = 160
)

// ValidateContent checks the fields a published advisory must carry.
func ValidateContent(a models.Advisory) error {
	errs := fieldErrors{}
	if strings.TrimSpace(a.Title) == "" {
		errs[models.AdvisoryTitle] = "is required"
	}
	switch {
	case strings.TrimSpace(a.Category) == "":
		errs[models.AdvisoryCategory] = "is required"
	case !models.IsCategory(a.Category):
		errs[models.AdvisoryCategory] = "is not a known category"
	}
	if n := utf8.RuneCountInString(a.Content); n < MinContentLength {
		errs[models.AdvisoryContent] = "must be at least 50 characters"
	}
	return errs.err()
}

// Publish moves a draft to published. An empty excerpt is derived from the
// content.
func Publish(a models.Advisory, now time.Time) (models.Advisory, error) {
	if a.Status != models.StatusDraft {
		return a, &TransitionError{ID: a.ID, From: a.Status, Action: ActionPublish}
	}
	if err := ValidateContent(a); err != nil {
		return a, err
	}
	return published(a, now), nil
}

// Schedule moves a draft to scheduled for at, which must be after now.
func Schedule(a models.Advisory, at, now time.Time) (models.Advisory, error) {
	if a.Status != models.StatusDraft {
		return a, &TransitionError{ID: a.ID, From: a.Status, Action: ActionSchedule}
	}
	switch {
	case at.IsZero():
		return a, fieldErrors{models.AdvisoryPublishAt: "is required"}.err()
	case !at.After(now):
		return a, fieldErrors{models.AdvisoryPublishAt: "must be in the future"}.err()
	}

	at = at.UTC()
	a.Status = models.StatusScheduled
	a.PublishAt = &at
	a.Archived = false
	a.UpdatedAt = now
	return a, nil
}

// Due reports whether a is scheduled and its publishAt has passed.
func Due(a models.Advisory, now time.Time) bool {
	return a.Status == models.StatusScheduled && a.PublishAt != nil && !a.PublishAt.After(now)
}

// PublishDue moves a scheduled advisory whose time has come to published.
// The content is validated again since it may have been edited after
// scheduling.
func PublishDue(a models.Advisory, now time.Time) (models.Advisory, error) {
	if a.Status != models.StatusScheduled {
		return a, &TransitionError{ID: a.ID, From: a.Status, Action: ActionPublishDue}
	}
	if !Due(a, now) {
		return a, fieldErrors{models.AdvisoryPublishAt: "is not due yet"}.err()
	}
	if err := ValidateContent(a); err != nil {
		return a, err
	}
	return published(a, now), nil
}

// Unpublish returns a published advisory to draft.
func Unpublish(a models.Advisory, now time.Time) (models.Advisory, error) {
	if a.Status != models.StatusPublished {
		return a, &TransitionError{ID: a.ID, From: a.Status, Action: ActionUnpublish}
	}
	a.Status = models.StatusDraft
	a.PublishAt = nil
	a.UpdatedAt = now
	return a, nil
}

// Touch is the Save side effect: the status is kept, updatedAt moves.
func Touch(a models.Advisory, now time.Time) models.Advisory {
	a.UpdatedAt = now
	return a
}

// DeriveExcerpt collapses whitespace in content and cuts it at a word
// boundary no longer than ExcerptLength runes.
func DeriveExcerpt(content string) string {
	text := strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(text) <= ExcerptLength {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:ExcerptLength])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "..."
}

func published(a models.Advisory, now time.Time) models.Advisory {
	a.Status = models.StatusPublished
	a.Archived = false
	a.UpdatedAt = now
	if strings.TrimSpace(a.Excerpt) == "" {
		a.Excerpt = DeriveExcerpt(a.Content)
	}
	return a
}
