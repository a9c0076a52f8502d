package rpc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestRecords_RoundTrip(t *testing.T) {
	created := time.Date(2025, 9, 15, 8, 30, 0, 0, time.UTC)
	in := []Record{
		{
			ID:        "a1",
			Fields:    map[string]any{"title": "Flood watch", "isEmergency": true, "tags": []any{"river"}, "publishAt": nil},
			CreatedAt: created,
			UpdatedAt: created.Add(time.Hour),
		},
		{ID: "a2", CreatedAt: created, UpdatedAt: created},
	}

	msg, err := RecordsProto(in)
	require.NoError(t, err)
	out, err := ParseRecords(msg)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, in[0].Fields, out[0].Fields)
	assert.True(t, in[0].UpdatedAt.Equal(out[0].UpdatedAt))
	assert.Equal(t, map[string]any{}, out[1].Fields)
}

func TestParseRecords_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
	}{
		{"records not a list", map[string]any{KeyRecords: "x"}},
		{"item not an object", map[string]any{KeyRecords: []any{"x"}}},
		{"missing id", map[string]any{KeyRecords: []any{map[string]any{KeyFields: map[string]any{}}}}},
		{"bad time", map[string]any{KeyRecords: []any{map[string]any{KeyID: "a", KeyCreatedAt: "yesterday"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := structpb.NewStruct(tt.in)
			require.NoError(t, err)
			_, err = ParseRecords(s)
			assert.Error(t, err)
		})
	}
}

func TestListRequest(t *testing.T) {
	msg, err := ListRequest{Collection: "advisories", Filters: map[string]string{"status": "Draft"}}.Proto()
	require.NoError(t, err)

	got, err := ParseListRequest(msg)
	require.NoError(t, err)
	assert.Equal(t, "advisories", got.Collection)
	assert.Equal(t, map[string]string{"status": "Draft"}, got.Filters)

	bad, err := structpb.NewStruct(map[string]any{KeyCollection: "advisories", KeyFilters: map[string]any{"capacity": 3}})
	require.NoError(t, err)
	_, err = ParseListRequest(bad)
	assert.Error(t, err)
}

func TestUpdateRequest_RequiresID(t *testing.T) {
	msg, err := UpdateRequest{Collection: "incidents", Patch: map[string]any{"status": "resolved"}}.Proto()
	require.NoError(t, err)

	_, err = ParseUpdateRequest(msg)
	assert.EqualError(t, err, "id: empty")
}

func TestCredentials(t *testing.T) {
	msg, err := Credentials{Username: "dispatch", Password: "pw"}.Proto()
	require.NoError(t, err)
	got, err := ParseCredentials(msg)
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "dispatch", Password: "pw"}, got)

	empty, _ := structpb.NewStruct(map[string]any{KeyUsername: "dispatch"})
	_, err = ParseCredentials(empty)
	assert.EqualError(t, err, "password: missing")
}

func TestStringMessage(t *testing.T) {
	msg, err := StringMessage(KeyRefreshToken, "r1")
	require.NoError(t, err)
	got, err := ParseStringMessage(msg, KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "r1", got)

	_, err = ParseStringMessage(msg, KeyKey)
	assert.Error(t, err)
}
