package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/common"
	"github.com/civicops/drconsole/internal/rpc"
)

var errBoom = errors.New("boom")

// memoryRemote is an in-memory resource server keyed by collection.
type memoryRemote struct {
	mu     sync.Mutex
	rows   map[string][]models.Resource
	nextID int
	now    time.Time

	listErr map[string]error
}

func newMemoryRemote(now time.Time) *memoryRemote {
	return &memoryRemote{rows: map[string][]models.Resource{}, now: now, listErr: map[string]error{}}
}

func (m *memoryRemote) seed(collection string, r models.Resource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[collection] = append(m.rows[collection], r)
}

func (m *memoryRemote) List(ctx context.Context, collection string, filters map[string]string) ([]models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.listErr[collection]; err != nil {
		return nil, err
	}
	var out []models.Resource
	for _, r := range m.rows[collection] {
		ok := true
		for k, v := range filters {
			if fmt.Sprint(r.Fields[k]) != v {
				ok = false
			}
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRemote) Create(ctx context.Context, collection string, fields map[string]any) (models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r := models.Resource{ID: fmt.Sprintf("%s-%d", collection, m.nextID), Fields: fields, CreatedAt: m.now, UpdatedAt: m.now}
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
		r.UpdatedAt = m.now
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

type fakePresign struct {
	upload    rpc.Upload
	uploadErr error
	lastKey   string
}

func (f *fakePresign) PresignUpload(ctx context.Context) (rpc.Upload, error) {
	return f.upload, f.uploadErr
}

func (f *fakePresign) PresignDownload(ctx context.Context, key string) (string, error) {
	f.lastKey = key
	return "https://s3.local/get/" + key, nil
}

type fakeAuthClient struct {
	registerErr error
	loginErr    error
	pingErr     error
	closed      bool
	access      string

	lastUser     string
	lastPassword string
}

func (f *fakeAuthClient) Register(ctx context.Context, username, password string) error {
	f.lastUser, f.lastPassword = username, password
	return f.registerErr
}

func (f *fakeAuthClient) Login(ctx context.Context, username, password string) error {
	f.lastUser, f.lastPassword = username, password
	return f.loginErr
}

func (f *fakeAuthClient) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeAuthClient) SetTokens(access, refresh string) { f.access = access }

func (f *fakeAuthClient) Close() error {
	f.closed = true
	return nil
}
