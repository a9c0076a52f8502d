package table

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/client/publication"
	"github.com/civicops/drconsole/internal/client/syncstore"
	"github.com/civicops/drconsole/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource[T Row] struct{ items []T }

func (s *sliceSource[T]) Items() []T { return append([]T(nil), s.items...) }

func day(d int) time.Time { return time.Date(2025, 9, d, 10, 0, 0, 0, time.UTC) }

const body = "Shelters at the north school and the civic center are open to all residents."

func scenario() []models.Advisory {
	return []models.Advisory{
		{ID: "a15", Title: "Road closure", Category: models.CategoryInfrastructure, Priority: models.PriorityLow, Status: models.StatusDraft, Content: body, CreatedAt: day(15)},
		{ID: "a16", Title: "Heat advisory", Category: models.CategoryWeather, Priority: models.PriorityCritical, Status: models.StatusPublished, Content: body, CreatedAt: day(16)},
		{ID: "a17", Title: "Évacuation", Category: models.CategoryEvacuation, Priority: models.PriorityHigh, Status: models.StatusScheduled, Content: body, CreatedAt: day(17)},
	}
}

func ids[T Row](rows []T) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.GetID()
	}
	return out
}

func TestVisible_CreatedAtDescThenStatusFilter(t *testing.T) {
	c := New[models.Advisory](&sliceSource[models.Advisory]{items: scenario()}, nil, DefaultFields)
	c.SetSort(models.FieldCreatedAt, Desc)

	assert.Equal(t, []string{"a17", "a16", "a15"}, ids(c.Visible()))

	c.SetFilterStatus(string(models.StatusPublished))
	assert.Equal(t, []string{"a16"}, ids(c.Visible()))
}

func TestVisible_FilterConjunction(t *testing.T) {
	items := append(scenario(),
		models.Advisory{ID: "b1", Category: models.CategoryWeather, Status: models.StatusDraft, CreatedAt: day(18)},
		models.Advisory{ID: "b2", Category: models.CategoryWeather, Status: models.StatusPublished, CreatedAt: day(19)},
	)
	src := &sliceSource[models.Advisory]{items: items}

	byStatus := New[models.Advisory](src, nil, DefaultFields)
	byStatus.SetFilterStatus("published")
	byCategory := New[models.Advisory](src, nil, DefaultFields)
	byCategory.SetFilterCategory(models.CategoryWeather)
	both := New[models.Advisory](src, nil, DefaultFields)
	both.SetFilterStatus("published")
	both.SetFilterCategory(models.CategoryWeather)

	inCategory := map[string]bool{}
	for _, id := range ids(byCategory.Visible()) {
		inCategory[id] = true
	}
	var want []string
	for _, id := range ids(byStatus.Visible()) {
		if inCategory[id] {
			want = append(want, id)
		}
	}

	assert.Equal(t, want, ids(both.Visible()))
	assert.ElementsMatch(t, []string{"a16", "b2"}, ids(both.Visible()))
}

func TestVisible_SortStableAndReversible(t *testing.T) {
	items := []models.Advisory{
		{ID: "1", Priority: models.PriorityHigh},
		{ID: "2", Priority: models.PriorityLow},
		{ID: "3", Priority: models.PriorityHigh},
		{ID: "4", Priority: models.PriorityCritical},
		{ID: "5", Priority: models.PriorityLow},
	}
	src := &sliceSource[models.Advisory]{items: items}
	c := New[models.Advisory](src, nil, DefaultFields)

	c.SetSort(models.AdvisoryPriority, Asc)
	asc := ids(c.Visible())
	assert.Equal(t, []string{"2", "5", "1", "3", "4"}, asc)

	// sorting the already sorted list again changes nothing
	src.items = c.Visible()
	assert.Equal(t, asc, ids(c.Visible()))

	src.items = items
	c.SetSort(models.AdvisoryPriority, Desc)
	assert.Equal(t, []string{"4", "1", "3", "2", "5"}, ids(c.Visible()))
}

func TestVisible_StringsNormalized(t *testing.T) {
	items := []models.Advisory{
		{ID: "decomposed", Title: "E\u0301vacuation b"},
		{ID: "composed", Title: "Évacuation a"},
		{ID: "plain", Title: "alert"},
	}
	c := New[models.Advisory](&sliceSource[models.Advisory]{items: items}, nil, DefaultFields)
	c.SetSort(models.AdvisoryTitle, Asc)

	assert.Equal(t, []string{"plain", "composed", "decomposed"}, ids(c.Visible()))
}

func TestVisible_NilPublishAtFirst(t *testing.T) {
	at := day(20)
	items := []models.Advisory{
		{ID: "later", PublishAt: &at},
		{ID: "none"},
	}
	c := New[models.Advisory](&sliceSource[models.Advisory]{items: items}, nil, DefaultFields)
	c.SetSort(models.AdvisoryPublishAt, Asc)

	assert.Equal(t, []string{"none", "later"}, ids(c.Visible()))
}

func TestToggleSort(t *testing.T) {
	c := New[models.Advisory](&sliceSource[models.Advisory]{}, nil, DefaultFields)

	c.ToggleSort(models.AdvisoryTitle)
	assert.Equal(t, Asc, c.State().SortDirection)
	c.ToggleSort(models.AdvisoryTitle)
	assert.Equal(t, Desc, c.State().SortDirection)
	c.ToggleSort(models.AdvisoryPriority)
	assert.Equal(t, models.AdvisoryPriority, c.State().SortField)
	assert.Equal(t, Asc, c.State().SortDirection)
}

func TestSelection(t *testing.T) {
	c := New[models.Advisory](&sliceSource[models.Advisory]{items: scenario()}, nil, DefaultFields)

	c.SetFilterStatus("draft")
	c.ToggleSelectAll()
	assert.Equal(t, []string{"a15"}, c.Selected())

	c.Toggle("a17")
	assert.Equal(t, []string{"a15", "a17"}, c.Selected())

	// visible rows all selected: toggling removes only them
	c.ToggleSelectAll()
	assert.Equal(t, []string{"a17"}, c.Selected())

	c.SetFilterStatus("draft")
	assert.Equal(t, []string{"a17"}, c.Selected(), "same filter keeps the selection")

	c.SetFilterCategory(models.CategoryWeather)
	assert.Empty(t, c.Selected())
}

func TestSelected_DropsVanishedIDs(t *testing.T) {
	src := &sliceSource[models.Advisory]{items: scenario()}
	c := New[models.Advisory](src, nil, DefaultFields)
	c.ToggleSelectAll()

	src.items = src.items[1:]
	assert.Equal(t, []string{"a16", "a17"}, c.Selected())
}

func TestState_ReturnsCopy(t *testing.T) {
	c := New[models.Advisory](&sliceSource[models.Advisory]{items: scenario()}, nil, DefaultFields)
	c.Toggle("a15")

	st := c.State()
	delete(st.Selected, "a15")
	assert.Equal(t, []string{"a15"}, c.Selected())
}

// ---- bulk publish ----

type memoryRemote struct {
	rows  []models.Advisory
	clock timex.Clock
}

func (m *memoryRemote) List(ctx context.Context, f syncstore.Filters) ([]models.Advisory, error) {
	return append([]models.Advisory(nil), m.rows...), nil
}

func (m *memoryRemote) Create(ctx context.Context, draft models.Advisory) (models.Advisory, error) {
	return models.Advisory{}, errors.New("not used")
}

func (m *memoryRemote) Update(ctx context.Context, id string, patch syncstore.Patch) (models.Advisory, error) {
	for i, r := range m.rows {
		if r.ID != id {
			continue
		}
		fields := models.AdvisoryCodec{}.Encode(r)
		for k, v := range patch {
			fields[k] = v
		}
		next, err := models.AdvisoryCodec{}.Decode(models.Resource{ID: id, Fields: fields, CreatedAt: r.CreatedAt, UpdatedAt: m.clock.Now()})
		if err != nil {
			return models.Advisory{}, err
		}
		m.rows[i] = next
		return next, nil
	}
	return models.Advisory{}, errors.New("no such row")
}

func (m *memoryRemote) Delete(ctx context.Context, id string) error { return nil }

func TestPublishSelected_OnlyDrafts(t *testing.T) {
	ctx := context.Background()
	clock := timex.NewFixedClock(day(20))
	remote := &memoryRemote{rows: scenario(), clock: clock}
	store := syncstore.New[models.Advisory]("advisories", remote, nil)
	require.NoError(t, store.Fetch(ctx, nil))
	machine := publication.NewMachine(store, clock, nil)

	c := New[models.Advisory](store, nil, DefaultFields)
	c.Toggle("a15")
	c.Toggle("a16")

	before, _ := store.Get("a16")
	report := c.PublishSelected(ctx, machine)

	assert.Equal(t, []string{"a15"}, report.Published)
	assert.Equal(t, []string{"a16"}, report.Skipped)
	assert.Empty(t, report.Failed)
	assert.Empty(t, c.Selected())

	got, _ := store.Get("a15")
	assert.Equal(t, models.StatusPublished, got.Status)
	after, _ := store.Get("a16")
	assert.Equal(t, before, after)
}

type failingPublisher struct{ calls []string }

func (f *failingPublisher) PublishDraft(ctx context.Context, id string) error {
	f.calls = append(f.calls, id)
	if id == "d2" {
		return errors.New("validation failed")
	}
	return nil
}

func TestPublishSelected_CollectsFailures(t *testing.T) {
	items := []models.Advisory{
		{ID: "d1", Status: models.StatusDraft},
		{ID: "d2", Status: models.StatusDraft},
		{ID: "d3", Status: models.StatusDraft},
	}
	c := New[models.Advisory](&sliceSource[models.Advisory]{items: items}, nil, DefaultFields)
	c.ToggleSelectAll()

	p := &failingPublisher{}
	report := c.PublishSelected(context.Background(), p)

	assert.Equal(t, []string{"d1", "d2", "d3"}, p.calls)
	assert.Equal(t, []string{"d1", "d3"}, report.Published)
	assert.Contains(t, report.Failed, "d2")
	assert.Empty(t, c.Selected())
}
