package services

import (
	"context"

	"github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/client/publication"
	"github.com/civicops/drconsole/internal/client/scheduler"
	"github.com/civicops/drconsole/internal/client/syncstore"
	"github.com/civicops/drconsole/internal/client/table"
	"github.com/civicops/drconsole/internal/common"
	"github.com/civicops/drconsole/internal/logging"
	"github.com/civicops/drconsole/internal/timex"
)

// Field sets for the non-advisory table views. Incidents filter by status
// and severity; centers by status only. Neither supports bulk publish.
var (
	IncidentFields = table.Fields{Status: models.IncidentStatus, Category: models.IncidentSeverity}
	CenterFields   = table.Fields{Status: models.CenterStatus}
)

// Console holds one store per collection and the components built on them.
type Console struct {
	Advisories *syncstore.Store[models.Advisory]
	Incidents  *syncstore.Store[models.Incident]
	Centers    *syncstore.Store[models.EvacuationCenter]
	Resources  *syncstore.Store[models.Document]

	Machine    *publication.Machine
	Reconciler *scheduler.Reconciler
	Documents  *DocumentService

	AdvisoryView *table.Controller[models.Advisory]
	IncidentView *table.Controller[models.Incident]
	CenterView   *table.Controller[models.EvacuationCenter]
}

// NewConsole builds the console over api. presign may be nil when document
// commands are not needed.
func NewConsole(api syncstore.RemoteResourceClient, presign PresignClient, clock timex.Clock, logger logging.Logger) *Console {
	if logger == nil {
		logger = logging.NopLogger{}
	}

	c := &Console{
		Advisories: syncstore.New[models.Advisory](common.CollectionAdvisories,
			syncstore.NewRemote[models.Advisory](api, common.CollectionAdvisories, models.AdvisoryCodec{}), logger),
		Incidents: syncstore.New[models.Incident](common.CollectionIncidents,
			syncstore.NewRemote[models.Incident](api, common.CollectionIncidents, models.IncidentCodec{}), logger),
		Centers: syncstore.New[models.EvacuationCenter](common.CollectionEvacuationCenters,
			syncstore.NewRemote[models.EvacuationCenter](api, common.CollectionEvacuationCenters, models.EvacuationCenterCodec{}), logger),
		Resources: syncstore.New[models.Document](common.CollectionResources,
			syncstore.NewRemote[models.Document](api, common.CollectionResources, models.DocumentCodec{}), logger),
	}

	c.Machine = publication.NewMachine(c.Advisories, clock, logger)
	c.Reconciler = scheduler.NewReconciler(c.Advisories, c.Machine, clock, logger)
	c.Reconciler.Refresh = true
	if presign != nil {
		c.Documents = NewDocumentService(presign, c.Resources)
	}

	c.AdvisoryView = table.New[models.Advisory](c.Advisories, nil, table.DefaultFields)
	c.IncidentView = table.New[models.Incident](c.Incidents, nil, IncidentFields)
	c.CenterView = table.New[models.EvacuationCenter](c.Centers, nil, CenterFields)
	return c
}

// Refresh fetches every collection. The first error is returned after all
// fetches have been attempted; each store keeps its own error as well.
func (c *Console) Refresh(ctx context.Context) error {
	var first error
	for _, fetch := range []func(context.Context, syncstore.Filters) error{
		c.Advisories.Fetch,
		c.Incidents.Fetch,
		c.Centers.Fetch,
		c.Resources.Fetch,
	} {
		if err := fetch(ctx, nil); err != nil && first == nil {
			first = err
		}
	}
	return first
}
