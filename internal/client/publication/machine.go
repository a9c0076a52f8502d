package publication

import (
	"context"
	"fmt"
	"time"

	"github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/client/syncstore"
	"github.com/civicops/drconsole/internal/common"
	"github.com/civicops/drconsole/internal/logging"
	"github.com/civicops/drconsole/internal/timex"
)

// AdvisoryStore is the part of syncstore.Store[models.Advisory] the machine
// writes through.
type AdvisoryStore interface {
	Get(id string) (models.Advisory, bool)
	Create(ctx context.Context, draft models.Advisory) (models.Advisory, error)
	Update(ctx context.Context, id string, patch syncstore.Patch) (models.Advisory, error)
}

// CreateMode selects the editor button that created the advisory.
type CreateMode int

const (
	SaveDraft CreateMode = iota
	PublishNow
)

// Machine applies lifecycle transitions to advisories held in a store.
type Machine struct {
	store  AdvisoryStore
	clock  timex.Clock
	codec  models.AdvisoryCodec
	logger logging.Logger
}

func NewMachine(store AdvisoryStore, clock timex.Clock, logger logging.Logger) *Machine {
	if clock == nil {
		clock = timex.SystemClock{}
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Machine{
		store:  store,
		clock:  clock,
		logger: logger.With("module", "publication"),
	}
}

// Create stores a new advisory, either as a draft or published straight
// away. Identity and timestamps come from the store.
func (m *Machine) Create(ctx context.Context, draft models.Advisory, mode CreateMode) (models.Advisory, error) {
	now := m.clock.Now()

	draft.ID = ""
	draft.Status = models.StatusDraft
	draft.PublishAt = nil
	draft.Archived = false

	next := Touch(draft, now)
	if mode == PublishNow {
		var err error
		if next, err = Publish(draft, now); err != nil {
			return models.Advisory{}, err
		}
	}

	created, err := m.store.Create(ctx, next)
	if err != nil {
		return models.Advisory{}, err
	}
	m.logger.Info(ctx, "advisory created", "id", created.ID, "status", created.Status)
	return created, nil
}

// Save persists edits to an existing advisory. The status cannot change
// through Save; a scheduled advisory may move its publishAt but only to a
// future time.
func (m *Machine) Save(ctx context.Context, edited models.Advisory) (models.Advisory, error) {
	cur, err := m.current(edited.ID)
	if err != nil {
		return models.Advisory{}, err
	}
	if edited.Status != cur.Status {
		return models.Advisory{}, &TransitionError{ID: cur.ID, From: cur.Status, Action: ActionSave}
	}

	now := m.clock.Now()
	if cur.Status == models.StatusScheduled {
		switch {
		case edited.PublishAt == nil:
			return models.Advisory{}, fieldErrors{models.AdvisoryPublishAt: "is required"}.err()
		case cur.PublishAt == nil || !edited.PublishAt.Equal(*cur.PublishAt):
			if !edited.PublishAt.After(now) {
				return models.Advisory{}, fieldErrors{models.AdvisoryPublishAt: "must be in the future"}.err()
			}
		}
	}
	if cur.Status == models.StatusPublished {
		// a live advisory must stay publishable
		if err := ValidateContent(edited); err != nil {
			return models.Advisory{}, err
		}
	}

	edited.Archived = cur.Archived
	next := Touch(edited, now)
	return m.write(ctx, ActionSave, cur, next, m.codec.Encode(next))
}

// Publish moves a draft to published.
func (m *Machine) Publish(ctx context.Context, id string) (models.Advisory, error) {
	cur, err := m.current(id)
	if err != nil {
		return models.Advisory{}, err
	}
	next, err := Publish(cur, m.clock.Now())
	if err != nil {
		return models.Advisory{}, err
	}
	return m.write(ctx, ActionPublish, cur, next, m.statusPatch(next))
}

// PublishDraft is Publish for callers that only need the outcome.
func (m *Machine) PublishDraft(ctx context.Context, id string) error {
	_, err := m.Publish(ctx, id)
	return err
}

// Schedule moves a draft to scheduled for at.
func (m *Machine) Schedule(ctx context.Context, id string, at time.Time) (models.Advisory, error) {
	cur, err := m.current(id)
	if err != nil {
		return models.Advisory{}, err
	}
	next, err := Schedule(cur, at, m.clock.Now())
	if err != nil {
		return models.Advisory{}, err
	}
	return m.write(ctx, ActionSchedule, cur, next, m.statusPatch(next))
}

// PublishDue publishes a scheduled advisory whose publishAt has passed.
func (m *Machine) PublishDue(ctx context.Context, id string) (models.Advisory, error) {
	cur, err := m.current(id)
	if err != nil {
		return models.Advisory{}, err
	}
	next, err := PublishDue(cur, m.clock.Now())
	if err != nil {
		return models.Advisory{}, err
	}
	return m.write(ctx, ActionPublishDue, cur, next, m.statusPatch(next))
}

// Unpublish returns a published advisory to draft.
func (m *Machine) Unpublish(ctx context.Context, id string) (models.Advisory, error) {
	cur, err := m.current(id)
	if err != nil {
		return models.Advisory{}, err
	}
	next, err := Unpublish(cur, m.clock.Now())
	if err != nil {
		return models.Advisory{}, err
	}
	return m.write(ctx, ActionUnpublish, cur, next, m.statusPatch(next))
}

func (m *Machine) current(id string) (models.Advisory, error) {
	cur, ok := m.store.Get(id)
	if !ok {
		return models.Advisory{}, fmt.Errorf("advisory %s: %w", id, common.ErrorNotFound)
	}
	return cur, nil
}

// statusPatch carries only the fields a transition touches.
func (m *Machine) statusPatch(next models.Advisory) syncstore.Patch {
	full := m.codec.Encode(next)
	return syncstore.Patch{
		models.AdvisoryStatus:    full[models.AdvisoryStatus],
		models.AdvisoryPublishAt: full[models.AdvisoryPublishAt],
		models.AdvisoryExcerpt:   full[models.AdvisoryExcerpt],
	}
}

func (m *Machine) write(ctx context.Context, action Action, cur, next models.Advisory, patch syncstore.Patch) (models.Advisory, error) {
	saved, err := m.store.Update(ctx, cur.ID, patch)
	if err != nil {
		m.logger.Warn(ctx, "transition not persisted", "id", cur.ID, "action", action, "error", err)
		return models.Advisory{}, err
	}
	m.logger.Info(ctx, "advisory transition", "id", cur.ID, "action", action, "from", cur.Status, "to", next.Status)
	return saved, nil
}
