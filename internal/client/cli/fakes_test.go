package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/civicops/drconsole/internal/client/config"
	"github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/client/services"
	"github.com/civicops/drconsole/internal/common"
	"github.com/civicops/drconsole/internal/rpc"
	"github.com/civicops/drconsole/internal/timex"
)

var now = time.Date(2025, 9, 16, 12, 0, 0, 0, time.UTC)

const longContent = "Residents of the river district should move vehicles to higher ground before nightfall."

// memoryRemote is an in-memory resource server keyed by collection.
type memoryRemote struct {
	mu     sync.Mutex
	rows   map[string][]models.Resource
	nextID int
}

func newMemoryRemote() *memoryRemote {
	return &memoryRemote{rows: map[string][]models.Resource{}}
}

func (m *memoryRemote) seed(collection string, r models.Resource) {
	m.rows[collection] = append(m.rows[collection], r)
}

func (m *memoryRemote) List(ctx context.Context, collection string, filters map[string]string) ([]models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Resource(nil), m.rows[collection]...), nil
}

func (m *memoryRemote) Create(ctx context.Context, collection string, fields map[string]any) (models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r := models.Resource{ID: fmt.Sprintf("new-%d", m.nextID), Fields: fields, CreatedAt: now, UpdatedAt: now}
	m.rows[collection] = append([]models.Resource{r}, m.rows[collection]...)
	return r, nil
}

func (m *memoryRemote) Update(ctx context.Context, collection, id string, patch map[string]any) (models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows[collection] {
		if r.ID != id {
			continue
		}
		fields := map[string]any{}
		for k, v := range r.Fields {
			fields[k] = v
		}
		for k, v := range patch {
			fields[k] = v
		}
		r.Fields = fields
		m.rows[collection][i] = r
		return r, nil
	}
	return models.Resource{}, fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
}

func (m *memoryRemote) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.rows[collection]
	for i, r := range rows {
		if r.ID == id {
			m.rows[collection] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
}

func (m *memoryRemote) PresignUpload(ctx context.Context) (rpc.Upload, error) {
	return rpc.Upload{Key: "documents/2025/09/16/k1", URL: "https://s3.local/put/k1"}, nil
}

func (m *memoryRemote) PresignDownload(ctx context.Context, key string) (string, error) {
	return "https://s3.local/get/" + key, nil
}

type fakeAuth struct {
	loginErr error
	username string
	pingErr  error
}

func (f *fakeAuth) Login(ctx context.Context, username string, password []byte) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.username = username
	return nil
}
func (f *fakeAuth) Register(ctx context.Context, username string, password []byte) error { return nil }
func (f *fakeAuth) Ping(ctx context.Context) error                                         { return f.pingErr }
func (f *fakeAuth) Logout(ctx context.Context)                                             { f.username = "" }
func (f *fakeAuth) Close(ctx context.Context) error                                        { return nil }
func (f *fakeAuth) Username() string                                                       { return f.username }

func seededRemote() *memoryRemote {
	remote := newMemoryRemote()
	remote.seed(common.CollectionAdvisories, models.Resource{ID: "a1", CreatedAt: now.Add(-2 * time.Hour), Fields: map[string]any{
		"title": "Flood watch", "category": models.CategoryWeather, "priority": "high", "status": "Draft", "content": longContent,
	}})
	remote.seed(common.CollectionAdvisories, models.Resource{ID: "a2", CreatedAt: now.Add(-time.Hour), Fields: map[string]any{
		"title": "Road closed", "category": models.CategoryInfrastructure, "priority": "low", "status": "Published", "content": longContent,
	}})
	remote.seed(common.CollectionIncidents, models.Resource{ID: "i1", Fields: map[string]any{"title": "Bridge damage", "severity": "high", "status": "open"}})
	remote.seed(common.CollectionEvacuationCenters, models.Resource{ID: "c1", Fields: map[string]any{"name": "North High", "capacity": 250.0, "occupancy": 40.0, "status": "open"}})
	remote.seed(common.CollectionResources, models.Resource{ID: "r1", Fields: map[string]any{"title": "Shelter map"}})
	return remote
}

type testApp struct {
	*App
	remote *memoryRemote
	clock  *timex.FixedClock
	buf    *bytes.Buffer
}

// newTestApp returns a logged-in App; input feeds the command prompts.
func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	remote := seededRemote()
	clock := timex.NewFixedClock(now)
	console := services.NewConsole(remote, remote, clock, nil)
	out := &bytes.Buffer{}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	app := newApp(cfg, nil, &fakeAuth{}, console, clock, strings.NewReader(input), out)
	if err := app.login(context.Background(), "ops", []byte("secret123")); err != nil {
		t.Fatalf("login: %v", err)
	}
	out.Reset()
	return &testApp{App: app, remote: remote, clock: clock, buf: out}
}
