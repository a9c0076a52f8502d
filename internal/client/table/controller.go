package table

import (
	"context"
	"fmt"
	"sort"
)

// Row is a record the controller can filter and sort.
type Row interface {
	GetID() string
	FieldValue(name string) any
}

// Source supplies the current collection, typically a syncstore.Store.
type Source[T Row] interface {
	Items() []T
}

// Fields names the row fields the two filters and bulk publish look at.
type Fields struct {
	Status   string
	Category string
	// Draft is the status value eligible for bulk publish.
	Draft string
}

// DefaultFields fit advisories.
var DefaultFields = Fields{Status: "status", Category: "category", Draft: "draft"}

// Controller derives the visible rows of a collection from a ViewState.
// It is not safe for concurrent use; each view owns one controller.
type Controller[T Row] struct {
	source Source[T]
	state  *ViewState
	fields Fields
}

// New binds source and state. A nil state gets NewViewState.
func New[T Row](source Source[T], state *ViewState, fields Fields) *Controller[T] {
	if state == nil {
		state = NewViewState()
	}
	if state.Selected == nil {
		state.Selected = map[string]struct{}{}
	}
	return &Controller[T]{source: source, state: state, fields: fields}
}

// State exposes the view parameters for rendering.
func (c *Controller[T]) State() ViewState {
	s := *c.state
	s.Selected = make(map[string]struct{}, len(c.state.Selected))
	for id := range c.state.Selected {
		s.Selected[id] = struct{}{}
	}
	return s
}

// Visible returns the filtered rows in sort order.
func (c *Controller[T]) Visible() []T {
	items := c.source.Items()

	out := make([]T, 0, len(items))
	for _, it := range items {
		if c.matches(it) {
			out = append(out, it)
		}
	}

	if c.state.SortField != "" {
		field := c.state.SortField
		desc := c.state.SortDirection == Desc
		sort.SliceStable(out, func(i, j int) bool {
			cmp := compareValues(out[i].FieldValue(field), out[j].FieldValue(field))
			if desc {
				cmp = -cmp
			}
			return cmp < 0
		})
	}
	return out
}

func (c *Controller[T]) matches(it T) bool {
	return matchFilter(it, c.fields.Status, c.state.FilterStatus) &&
		matchFilter(it, c.fields.Category, c.state.FilterCategory)
}

func matchFilter(it Row, field, want string) bool {
	if want == "" || want == All || field == "" {
		return true
	}
	v := it.FieldValue(field)
	if v == nil {
		return false
	}
	return fmt.Sprint(v) == want
}

// SetFilterStatus changes the status filter. The selection is cleared
// whenever the filter predicate actually changes.
func (c *Controller[T]) SetFilterStatus(v string) {
	if normalizeFilter(v) == normalizeFilter(c.state.FilterStatus) {
		return
	}
	c.state.FilterStatus = normalizeFilter(v)
	c.ClearSelection()
}

// SetFilterCategory is SetFilterStatus for the category filter.
func (c *Controller[T]) SetFilterCategory(v string) {
	if normalizeFilter(v) == normalizeFilter(c.state.FilterCategory) {
		return
	}
	c.state.FilterCategory = normalizeFilter(v)
	c.ClearSelection()
}

func normalizeFilter(v string) string {
	if v == "" {
		return All
	}
	return v
}

// SetSort sets the sort field and direction.
func (c *Controller[T]) SetSort(field string, dir Direction) {
	if dir != Asc {
		dir = Desc
	}
	c.state.SortField = field
	c.state.SortDirection = dir
}

// ToggleSort flips the direction on the current field, or starts a new
// field ascending.
func (c *Controller[T]) ToggleSort(field string) {
	if c.state.SortField == field {
		if c.state.SortDirection == Asc {
			c.state.SortDirection = Desc
		} else {
			c.state.SortDirection = Asc
		}
		return
	}
	c.SetSort(field, Asc)
}

// Toggle flips the selection of one id.
func (c *Controller[T]) Toggle(id string) {
	if c.state.isSelected(id) {
		delete(c.state.Selected, id)
		return
	}
	c.state.Selected[id] = struct{}{}
}

// ToggleSelectAll adds every visible id to the selection. When all of them
// are already selected it removes them instead. Ids outside the current
// view are left alone.
func (c *Controller[T]) ToggleSelectAll() {
	visible := c.Visible()
	all := len(visible) > 0
	for _, it := range visible {
		if !c.state.isSelected(it.GetID()) {
			all = false
			break
		}
	}
	for _, it := range visible {
		if all {
			delete(c.state.Selected, it.GetID())
		} else {
			c.state.Selected[it.GetID()] = struct{}{}
		}
	}
}

func (c *Controller[T]) ClearSelection() {
	clear(c.state.Selected)
}

// Selected returns the selected ids that still exist in the collection, in
// collection order.
func (c *Controller[T]) Selected() []string {
	var ids []string
	for _, it := range c.source.Items() {
		if c.state.isSelected(it.GetID()) {
			ids = append(ids, it.GetID())
		}
	}
	return ids
}

// Publisher performs the publish transition for one record.
type Publisher interface {
	PublishDraft(ctx context.Context, id string) error
}

// BulkReport is the outcome of PublishSelected.
type BulkReport struct {
	Published []string
	Skipped   []string
	Failed    map[string]error
}

// PublishSelected publishes every selected row still in draft status and
// skips the others. Failures are collected rather than aborting the batch.
// The selection is empty afterwards.
func (c *Controller[T]) PublishSelected(ctx context.Context, p Publisher) BulkReport {
	report := BulkReport{Failed: map[string]error{}}

	var targets []string
	for _, it := range c.source.Items() {
		id := it.GetID()
		if !c.state.isSelected(id) {
			continue
		}
		if fmt.Sprint(it.FieldValue(c.fields.Status)) != c.fields.Draft {
			report.Skipped = append(report.Skipped, id)
			continue
		}
		targets = append(targets, id)
	}

	for _, id := range targets {
		if err := ctx.Err(); err != nil {
			report.Failed[id] = err
			continue
		}
		if err := p.PublishDraft(ctx, id); err != nil {
			report.Failed[id] = err
			continue
		}
		report.Published = append(report.Published, id)
	}

	c.ClearSelection()
	return report
}
