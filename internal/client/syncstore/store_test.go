package syncstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/civicops/drconsole/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    string
	Title string
}

func (i item) GetID() string { return i.ID }

// ---- fake client ----

type listResult struct {
	items []item
	err   error
}

type fakeClient struct {
	mu sync.Mutex

	ListRet []item
	ListErr error
	// when set, List blocks on the next channel in order
	listGates []chan listResult
	listCalls int

	CreateRet item
	CreateErr error

	UpdateFn  func(id string, patch Patch) (item, error)
	DeleteErr error

	LastCreate  item
	UpdateCalls []string
	DeleteCalls []string
}

func (f *fakeClient) List(ctx context.Context, filters Filters) ([]item, error) {
	f.mu.Lock()
	n := f.listCalls
	f.listCalls++
	var gate chan listResult
	if n < len(f.listGates) {
		gate = f.listGates[n]
	}
	ret, err := f.ListRet, f.ListErr
	f.mu.Unlock()

	if gate != nil {
		r := <-gate
		return r.items, r.err
	}
	return ret, err
}

func (f *fakeClient) Create(ctx context.Context, draft item) (item, error) {
	f.LastCreate = draft
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) Update(ctx context.Context, id string, patch Patch) (item, error) {
	f.UpdateCalls = append(f.UpdateCalls, id)
	if f.UpdateFn != nil {
		return f.UpdateFn(id, patch)
	}
	return item{ID: id}, nil
}

func (f *fakeClient) Delete(ctx context.Context, id string) error {
	f.DeleteCalls = append(f.DeleteCalls, id)
	return f.DeleteErr
}

func seeded(t *testing.T, fc *fakeClient, items ...item) *Store[item] {
	t.Helper()
	fc.ListRet = items
	s := New[item]("advisories", fc, nil)
	require.NoError(t, s.Fetch(context.Background(), nil))
	fc.ListRet = nil
	return s
}

// ---- tests ----

func TestFetch_ReplacesItems(t *testing.T) {
	fc := &fakeClient{}
	s := seeded(t, fc, item{ID: "a"}, item{ID: "b"})

	assert.Equal(t, []item{{ID: "a"}, {ID: "b"}}, s.Items())
	assert.False(t, s.Loading())
	assert.NoError(t, s.Err())
}

func TestFetch_FailureKeepsItems(t *testing.T) {
	fc := &fakeClient{}
	s := seeded(t, fc, item{ID: "a"})

	fc.ListErr = errors.New("connection refused")
	err := s.Fetch(context.Background(), Filters{"status": "Draft"})

	var re *RemoteOperationError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, CodeRemoteFailure, re.Code)
	assert.Equal(t, OpList, re.Op)
	assert.Equal(t, err, s.Err())
	assert.Equal(t, []item{{ID: "a"}}, s.Items())
	assert.False(t, s.Loading())
}

func TestFetch_SupersededResultIsDiscarded(t *testing.T) {
	first := make(chan listResult)
	second := make(chan listResult)
	fc := &fakeClient{listGates: []chan listResult{first, second}}
	s := New[item]("advisories", fc, nil)
	ctx := context.Background()

	errs := make(chan error, 2)
	go func() { errs <- s.Fetch(ctx, Filters{"q": "old"}) }()
	require.Eventually(t, func() bool {
		fc.mu.Lock()
		defer fc.mu.Unlock()
		return fc.listCalls == 1
	}, time.Second, time.Millisecond)

	go func() { errs <- s.Fetch(ctx, Filters{"q": "new"}) }()
	require.Eventually(t, func() bool {
		fc.mu.Lock()
		defer fc.mu.Unlock()
		return fc.listCalls == 2
	}, time.Second, time.Millisecond)
	assert.True(t, s.Loading())

	// the later call resolves first
	second <- listResult{items: []item{{ID: "new"}}}
	require.NoError(t, <-errs)
	assert.True(t, s.Loading())

	first <- listResult{items: []item{{ID: "old"}}}
	require.NoError(t, <-errs)

	assert.Equal(t, []item{{ID: "new"}}, s.Items())
	assert.False(t, s.Loading())
}

func TestFetch_SupersededFailureIsIgnored(t *testing.T) {
	first := make(chan listResult)
	fc := &fakeClient{listGates: []chan listResult{first}}
	s := New[item]("advisories", fc, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.Fetch(ctx, nil) }()
	require.Eventually(t, func() bool {
		fc.mu.Lock()
		defer fc.mu.Unlock()
		return fc.listCalls == 1
	}, time.Second, time.Millisecond)

	fc.mu.Lock()
	fc.ListRet = []item{{ID: "fresh"}}
	fc.mu.Unlock()
	require.NoError(t, s.Fetch(ctx, nil))

	first <- listResult{err: errors.New("timeout")}
	require.NoError(t, <-done)

	assert.NoError(t, s.Err())
	assert.Equal(t, []item{{ID: "fresh"}}, s.Items())
}

func TestCreate_PrependsConfirmedRecord(t *testing.T) {
	fc := &fakeClient{CreateRet: item{ID: "srv-1", Title: "Flood watch"}}
	s := seeded(t, fc, item{ID: "a"})

	got, err := s.Create(context.Background(), item{Title: "Flood watch"})
	require.NoError(t, err)

	assert.Equal(t, "srv-1", got.ID)
	assert.Equal(t, item{Title: "Flood watch"}, fc.LastCreate)
	assert.Equal(t, []item{{ID: "srv-1", Title: "Flood watch"}, {ID: "a"}}, s.Items())
}

func TestCreate_FailureLeavesItemsUnchanged(t *testing.T) {
	fc := &fakeClient{CreateErr: errors.New("boom")}
	s := seeded(t, fc, item{ID: "a"})

	_, err := s.Create(context.Background(), item{Title: "x"})

	var re *RemoteOperationError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, OpCreate, re.Op)
	assert.Equal(t, []item{{ID: "a"}}, s.Items())
}

func TestUpdate_ReplacesInPlace(t *testing.T) {
	fc := &fakeClient{UpdateFn: func(id string, patch Patch) (item, error) {
		return item{ID: id, Title: patch["title"].(string)}, nil
	}}
	s := seeded(t, fc, item{ID: "a"}, item{ID: "b", Title: "old"}, item{ID: "c"})

	got, err := s.Update(context.Background(), "b", Patch{"title": "new"})
	require.NoError(t, err)
	assert.Equal(t, item{ID: "b", Title: "new"}, got)

	assert.Equal(t, []item{{ID: "a"}, {ID: "b", Title: "new"}, {ID: "c"}}, s.Items())
}

func TestUpdate_UnknownIDSkipsRemote(t *testing.T) {
	fc := &fakeClient{}
	s := seeded(t, fc, item{ID: "a"})

	_, err := s.Update(context.Background(), "zzz", Patch{"title": "x"})

	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Empty(t, fc.UpdateCalls)
}

func TestUpdate_RemoteNotFound(t *testing.T) {
	fc := &fakeClient{UpdateFn: func(id string, patch Patch) (item, error) {
		return item{}, common.ErrorNotFound
	}}
	s := seeded(t, fc, item{ID: "a"})

	_, err := s.Update(context.Background(), "a", Patch{})

	assert.True(t, IsNotFound(err))
	assert.Equal(t, []item{{ID: "a"}}, s.Items())
}

func TestUpdate_RecordReplacedByConcurrentFetch(t *testing.T) {
	fc := &fakeClient{}
	s := seeded(t, fc, item{ID: "a"}, item{ID: "b"})

	fc.UpdateFn = func(id string, patch Patch) (item, error) {
		fc.ListRet = []item{{ID: "b"}, {ID: "c"}}
		require.NoError(t, s.Fetch(context.Background(), nil))
		return item{ID: id, Title: "edited"}, nil
	}

	got, err := s.Update(context.Background(), "a", Patch{"title": "edited"})

	require.NoError(t, err)
	assert.Equal(t, item{ID: "a", Title: "edited"}, got)
	assert.Equal(t, []item{{ID: "b"}, {ID: "c"}}, s.Items())
	_, ok := s.Get("a")
	assert.False(t, ok)
}

func TestDelete_RemovesExactlyOne(t *testing.T) {
	fc := &fakeClient{}
	s := seeded(t, fc, item{ID: "a"}, item{ID: "b"}, item{ID: "c"})

	require.NoError(t, s.Delete(context.Background(), "b"))

	assert.Equal(t, []string{"b"}, fc.DeleteCalls)
	assert.Equal(t, []item{{ID: "a"}, {ID: "c"}}, s.Items())
}

func TestDelete_FailureKeepsRecord(t *testing.T) {
	fc := &fakeClient{DeleteErr: common.ErrorUnauthorized}
	s := seeded(t, fc, item{ID: "a"})

	err := s.Delete(context.Background(), "a")

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.False(t, IsNotFound(err))
	assert.Equal(t, []item{{ID: "a"}}, s.Items())
}

func TestDelete_UnknownIDSkipsRemote(t *testing.T) {
	fc := &fakeClient{}
	s := seeded(t, fc, item{ID: "a"})

	err := s.Delete(context.Background(), "nope")

	assert.True(t, IsNotFound(err))
	assert.Empty(t, fc.DeleteCalls)
	assert.Len(t, s.Items(), 1)
}

func TestItems_ReturnsCopy(t *testing.T) {
	fc := &fakeClient{}
	s := seeded(t, fc, item{ID: "a"})

	items := s.Items()
	items[0].Title = "mutated"

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Empty(t, got.Title)
}
