package services

import (
	"context"
	"testing"
	"time"

	"github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/client/publication"
	"github.com/civicops/drconsole/internal/common"
	"github.com/civicops/drconsole/internal/rpc"
	"github.com/civicops/drconsole/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 9, 16, 12, 0, 0, 0, time.UTC)

const longContent = "Residents of the river district should move vehicles to higher ground before nightfall."

func TestConsole_RefreshAndBulkPublish(t *testing.T) {
	remote := newMemoryRemote(now)
	remote.seed(common.CollectionAdvisories, models.Resource{ID: "a1", CreatedAt: now.Add(-2 * time.Hour), Fields: map[string]any{
		"title": "Flood watch", "category": models.CategoryWeather, "priority": "high", "status": "Draft", "content": longContent,
	}})
	remote.seed(common.CollectionAdvisories, models.Resource{ID: "a2", CreatedAt: now.Add(-time.Hour), Fields: map[string]any{
		"title": "Road closed", "category": models.CategoryInfrastructure, "priority": "low", "status": "Published", "content": longContent,
	}})
	remote.seed(common.CollectionIncidents, models.Resource{ID: "i1", Fields: map[string]any{"title": "Bridge damage", "severity": "high", "status": "open"}})
	remote.seed(common.CollectionEvacuationCenters, models.Resource{ID: "c1", Fields: map[string]any{"name": "North High", "capacity": 250.0, "occupancy": 40.0, "status": "open"}})

	c := NewConsole(remote, nil, timex.NewFixedClock(now), nil)
	require.NoError(t, c.Refresh(context.Background()))

	assert.Len(t, c.Advisories.Items(), 2)
	assert.Len(t, c.IncidentView.Visible(), 1)
	centers := c.CenterView.Visible()
	require.Len(t, centers, 1)
	assert.Equal(t, 210, centers[0].Available())
	assert.Nil(t, c.Documents)

	visible := c.AdvisoryView.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, "a2", visible[0].ID)

	c.AdvisoryView.ToggleSelectAll()
	report := c.AdvisoryView.PublishSelected(context.Background(), c.Machine)

	assert.Equal(t, []string{"a1"}, report.Published)
	assert.Equal(t, []string{"a2"}, report.Skipped)
	assert.Empty(t, report.Failed)
	assert.Empty(t, c.AdvisoryView.Selected())

	a1, ok := c.Advisories.Get("a1")
	require.True(t, ok)
	assert.Equal(t, models.StatusPublished, a1.Status)
}

func TestConsole_RefreshReportsFirstError(t *testing.T) {
	remote := newMemoryRemote(now)
	remote.listErr[common.CollectionIncidents] = errBoom
	remote.seed(common.CollectionEvacuationCenters, models.Resource{ID: "c1", Fields: map[string]any{"name": "North High"}})

	c := NewConsole(remote, nil, timex.NewFixedClock(now), nil)
	err := c.Refresh(context.Background())

	assert.ErrorIs(t, err, errBoom)
	assert.Error(t, c.Incidents.Err())
	assert.Len(t, c.Centers.Items(), 1)
}

func TestConsole_ReconcilerPublishesDue(t *testing.T) {
	remote := newMemoryRemote(now)
	remote.seed(common.CollectionAdvisories, models.Resource{ID: "a1", Fields: map[string]any{
		"title": "Shelter opening", "category": models.CategoryEvacuation, "priority": "medium", "status": "Draft",
		"content": longContent, "publishAt": now.Add(-time.Minute).Format(time.RFC3339),
	}})
	remote.seed(common.CollectionAdvisories, models.Resource{ID: "a2", Fields: map[string]any{
		"title": "Later", "category": models.CategoryGeneral, "priority": "low", "status": "Draft",
		"content": longContent, "publishAt": now.Add(time.Hour).Format(time.RFC3339),
	}})

	c := NewConsole(remote, nil, timex.NewFixedClock(now), nil)
	rep, err := c.Reconciler.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, rep.Published)

	a2, ok := c.Advisories.Get("a2")
	require.True(t, ok)
	assert.Equal(t, models.StatusScheduled, a2.Status)
}

func TestConsole_CreateFromDraft(t *testing.T) {
	remote := newMemoryRemote(now)
	c := NewConsole(remote, nil, timex.NewFixedClock(now), nil)

	d := publication.NewDraft()
	d.Title = "Evacuate zone B"
	require.NoError(t, d.ApplyTemplate("evacuation"))
	require.NoError(t, d.Validate())

	created, err := c.Machine.Create(context.Background(), d.Advisory, publication.PublishNow)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, created.Status)
	assert.Equal(t, models.CategoryEvacuation, created.Category)
	assert.Equal(t, created.ID, c.Advisories.Items()[0].ID)
}

func TestDocumentService(t *testing.T) {
	remote := newMemoryRemote(now)
	remote.seed(common.CollectionResources, models.Resource{ID: "r1", Fields: map[string]any{"title": "Shelter map"}})
	presign := &fakePresign{upload: rpc.Upload{Key: "documents/2025/09/16/k1", URL: "https://s3.local/put"}}

	c := NewConsole(remote, presign, timex.NewFixedClock(now), nil)
	require.NoError(t, c.Resources.Fetch(context.Background(), nil))
	ctx := context.Background()

	_, err := c.Documents.DownloadURL(ctx, "r1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	url, err := c.Documents.Attach(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.local/put", url)

	d, ok := c.Resources.Get("r1")
	require.True(t, ok)
	assert.Equal(t, "documents/2025/09/16/k1", d.Key)

	url, err = c.Documents.DownloadURL(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.local/get/documents/2025/09/16/k1", url)

	_, err = c.Documents.Attach(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	presign.uploadErr = errBoom
	_, err = c.Documents.Attach(ctx, "r1")
	assert.ErrorIs(t, err, errBoom)
}
