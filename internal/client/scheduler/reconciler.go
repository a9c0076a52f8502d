// Package scheduler publishes scheduled advisories once their time comes.
//
// The publication machine never polls. Reconciler is the background pass
// that does: it compares every scheduled advisory's publishAt with the
// clock and calls PublishDue for the ones that are due.
package scheduler

import (
	"context"
	"time"

	"github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/client/publication"
	"github.com/civicops/drconsole/internal/client/syncstore"
	"github.com/civicops/drconsole/internal/logging"
	"github.com/civicops/drconsole/internal/timex"
)

// AdvisorySource is the advisory store.
type AdvisorySource interface {
	Items() []models.Advisory
	Fetch(ctx context.Context, filters syncstore.Filters) error
}

// Publisher performs the scheduled to published transition.
type Publisher interface {
	PublishDue(ctx context.Context, id string) (models.Advisory, error)
}

// Report lists what one pass did.
type Report struct {
	Published []string
	Failed    map[string]error
}

type Reconciler struct {
	source    AdvisorySource
	publisher Publisher
	clock     timex.Clock
	logger    logging.Logger

	// Refresh fetches the store before each pass.
	Refresh bool
}

func NewReconciler(source AdvisorySource, publisher Publisher, clock timex.Clock, logger logging.Logger) *Reconciler {
	if clock == nil {
		clock = timex.SystemClock{}
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Reconciler{
		source:    source,
		publisher: publisher,
		clock:     clock,
		logger:    logger.With("module", "scheduler"),
	}
}

// RunOnce publishes every due advisory. A failed refresh aborts the pass;
// a failed publish is recorded and the pass continues.
func (r *Reconciler) RunOnce(ctx context.Context) (Report, error) {
	report := Report{Failed: map[string]error{}}

	if r.Refresh {
		if err := r.source.Fetch(ctx, nil); err != nil {
			r.logger.Warn(ctx, "refresh before reconcile failed", "error", err)
			return report, err
		}
	}

	now := r.clock.Now()
	for _, a := range r.source.Items() {
		if !publication.Due(a, now) {
			continue
		}
		if _, err := r.publisher.PublishDue(ctx, a.ID); err != nil {
			r.logger.Warn(ctx, "scheduled publish failed", "id", a.ID, "error", err)
			report.Failed[a.ID] = err
			continue
		}
		r.logger.Info(ctx, "scheduled advisory published", "id", a.ID, "publishAt", a.PublishAt)
		report.Published = append(report.Published, a.ID)
	}
	return report, nil
}

// Run calls RunOnce immediately and then every interval until ctx is done.
// A non-positive interval runs the single pass and returns. onPass, when
// set, receives each pass's result.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration, onPass func(Report, error)) {
	pass := func() {
		rep, err := r.RunOnce(ctx)
		if onPass != nil {
			onPass(rep, err)
		}
	}

	pass()
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pass()
		case <-ctx.Done():
			return
		}
	}
}
