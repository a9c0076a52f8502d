package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/civicops/drconsole/internal/dbx"
	"github.com/civicops/drconsole/internal/server/models"
	"github.com/civicops/drconsole/internal/server/repositories/records"
	refreshtokensrepo "github.com/civicops/drconsole/internal/server/repositories/refreshtokens"
	usersrepo "github.com/civicops/drconsole/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	created   *models.User
	createErr error

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = u
	u.ID = "u-1"
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(context.Context, string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	deleted []string
	delErr  error

	createdUser    string
	createdExpires time.Time
	createErr      error

	purgeErr error
	purged   int
}

func (f *fakeRefreshRepo) Create(_ context.Context, userID, _ string, expires time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdUser = userID
	f.createdExpires = expires
	return nil
}

func (f *fakeRefreshRepo) Find(context.Context, string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(_ context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(context.Context, time.Time) (int64, error) {
	f.purged++
	return 0, f.purgeErr
}

// fakeRecords remembers the arguments of the last call.
type fakeRecords struct {
	records.Repository
	inserted map[string]any
	patched  map[string]any
	out      *models.Record
	err      error
	listed   map[string]string
	deleted  string
}

func (f *fakeRecords) List(_ context.Context, _ string, filters map[string]string) ([]models.Record, error) {
	f.listed = filters
	if f.err != nil {
		return nil, f.err
	}
	return []models.Record{*f.out}, nil
}

func (f *fakeRecords) Insert(_ context.Context, _ string, data map[string]any) (*models.Record, error) {
	f.inserted = data
	if f.err != nil {
		return nil, f.err
	}
	return &models.Record{ID: "r-1", Data: data}, nil
}

func (f *fakeRecords) Update(_ context.Context, _ string, id string, patch map[string]any) (*models.Record, error) {
	f.patched = patch
	if f.err != nil {
		return nil, f.err
	}
	return &models.Record{ID: id, Data: patch}, nil
}

func (f *fakeRecords) Delete(_ context.Context, _ string, id string) error {
	f.deleted = id
	return f.err
}

type fakeRepoManager struct {
	u   *fakeUsersRepo
	r   *fakeRefreshRepo
	rec *fakeRecords
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Records(dbx.DBTX) records.Repository                 { return m.rec }
