package rpc

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// Payload keys.
const (
	KeyCollection   = "collection"
	KeyFilters      = "filters"
	KeyFields       = "fields"
	KeyPatch        = "patch"
	KeyID           = "id"
	KeyCreatedAt    = "createdAt"
	KeyUpdatedAt    = "updatedAt"
	KeyRecords      = "records"
	KeyRecord       = "record"
	KeyUsername     = "username"
	KeyPassword     = "password"
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyKey          = "key"
	KeyURL          = "url"
)

// Record is one stored resource on the wire.
type Record struct {
	ID        string
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ListRequest struct {
	Collection string
	Filters    map[string]string
}

type CreateRequest struct {
	Collection string
	Fields     map[string]any
}

type UpdateRequest struct {
	Collection string
	ID         string
	Patch      map[string]any
}

type DeleteRequest struct {
	Collection string
	ID         string
}

type Credentials struct {
	Username string
	Password string
}

type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// Upload is a presigned PUT target. Key is what the record stores.
type Upload struct {
	Key string
	URL string
}

func (r ListRequest) Proto() (*structpb.Struct, error) {
	filters := make(map[string]any, len(r.Filters))
	for k, v := range r.Filters {
		filters[k] = v
	}
	return structpb.NewStruct(map[string]any{KeyCollection: r.Collection, KeyFilters: filters})
}

func ParseListRequest(s *structpb.Struct) (ListRequest, error) {
	m := s.AsMap()
	coll, err := stringField(m, KeyCollection, true)
	if err != nil {
		return ListRequest{}, err
	}
	raw, err := mapField(m, KeyFilters)
	if err != nil {
		return ListRequest{}, err
	}
	filters := make(map[string]string, len(raw))
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			return ListRequest{}, fmt.Errorf("filter %q: want string, got %T", k, v)
		}
		filters[k] = s
	}
	return ListRequest{Collection: coll, Filters: filters}, nil
}

func (r CreateRequest) Proto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{KeyCollection: r.Collection, KeyFields: orEmpty(r.Fields)})
}

func ParseCreateRequest(s *structpb.Struct) (CreateRequest, error) {
	m := s.AsMap()
	coll, err := stringField(m, KeyCollection, true)
	if err != nil {
		return CreateRequest{}, err
	}
	fields, err := mapField(m, KeyFields)
	if err != nil {
		return CreateRequest{}, err
	}
	return CreateRequest{Collection: coll, Fields: fields}, nil
}

func (r UpdateRequest) Proto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{KeyCollection: r.Collection, KeyID: r.ID, KeyPatch: orEmpty(r.Patch)})
}

func ParseUpdateRequest(s *structpb.Struct) (UpdateRequest, error) {
	m := s.AsMap()
	coll, err := stringField(m, KeyCollection, true)
	if err != nil {
		return UpdateRequest{}, err
	}
	id, err := stringField(m, KeyID, true)
	if err != nil {
		return UpdateRequest{}, err
	}
	patch, err := mapField(m, KeyPatch)
	if err != nil {
		return UpdateRequest{}, err
	}
	return UpdateRequest{Collection: coll, ID: id, Patch: patch}, nil
}

func (r DeleteRequest) Proto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{KeyCollection: r.Collection, KeyID: r.ID})
}

func ParseDeleteRequest(s *structpb.Struct) (DeleteRequest, error) {
	m := s.AsMap()
	coll, err := stringField(m, KeyCollection, true)
	if err != nil {
		return DeleteRequest{}, err
	}
	id, err := stringField(m, KeyID, true)
	if err != nil {
		return DeleteRequest{}, err
	}
	return DeleteRequest{Collection: coll, ID: id}, nil
}

func (c Credentials) Proto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{KeyUsername: c.Username, KeyPassword: c.Password})
}

func ParseCredentials(s *structpb.Struct) (Credentials, error) {
	m := s.AsMap()
	user, err := stringField(m, KeyUsername, true)
	if err != nil {
		return Credentials{}, err
	}
	pass, err := stringField(m, KeyPassword, true)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Username: user, Password: pass}, nil
}

func (t Tokens) Proto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{KeyAccessToken: t.AccessToken, KeyRefreshToken: t.RefreshToken})
}

func ParseTokens(s *structpb.Struct) (Tokens, error) {
	m := s.AsMap()
	access, err := stringField(m, KeyAccessToken, false)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := stringField(m, KeyRefreshToken, false)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (u Upload) Proto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{KeyKey: u.Key, KeyURL: u.URL})
}

func ParseUpload(s *structpb.Struct) (Upload, error) {
	m := s.AsMap()
	key, err := stringField(m, KeyKey, false)
	if err != nil {
		return Upload{}, err
	}
	url, err := stringField(m, KeyURL, true)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Key: key, URL: url}, nil
}

// Single string payloads: refresh token in, key in, URL out.

func StringMessage(key, value string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{key: value})
}

func ParseStringMessage(s *structpb.Struct, key string) (string, error) {
	return stringField(s.AsMap(), key, true)
}

func (r Record) toMap() map[string]any {
	return map[string]any{
		KeyID:        r.ID,
		KeyFields:    orEmpty(r.Fields),
		KeyCreatedAt: r.CreatedAt.UTC().Format(time.RFC3339Nano),
		KeyUpdatedAt: r.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (r Record) Proto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{KeyRecord: r.toMap()})
}

func ParseRecord(s *structpb.Struct) (Record, error) {
	m, err := mapField(s.AsMap(), KeyRecord)
	if err != nil {
		return Record{}, err
	}
	return recordFromMap(m)
}

func RecordsProto(records []Record) (*structpb.Struct, error) {
	list := make([]any, len(records))
	for i, r := range records {
		list[i] = r.toMap()
	}
	return structpb.NewStruct(map[string]any{KeyRecords: list})
}

func ParseRecords(s *structpb.Struct) ([]Record, error) {
	raw, ok := s.AsMap()[KeyRecords]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: want list, got %T", KeyRecords, raw)
	}
	out := make([]Record, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: want object, got %T", KeyRecords, i, item)
		}
		r, err := recordFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", KeyRecords, i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func recordFromMap(m map[string]any) (Record, error) {
	id, err := stringField(m, KeyID, true)
	if err != nil {
		return Record{}, err
	}
	fields, err := mapField(m, KeyFields)
	if err != nil {
		return Record{}, err
	}
	created, err := timeField(m, KeyCreatedAt)
	if err != nil {
		return Record{}, err
	}
	updated, err := timeField(m, KeyUpdatedAt)
	if err != nil {
		return Record{}, err
	}
	return Record{ID: id, Fields: fields, CreatedAt: created, UpdatedAt: updated}, nil
}

func stringField(m map[string]any, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("%s: missing", key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: want string, got %T", key, v)
	}
	if required && s == "" {
		return "", fmt.Errorf("%s: empty", key)
	}
	return s, nil
}

func mapField(m map[string]any, key string) (map[string]any, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return map[string]any{}, nil
	}
	out, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: want object, got %T", key, v)
	}
	return out, nil
}

func timeField(m map[string]any, key string) (time.Time, error) {
	s, err := stringField(m, key, false)
	if err != nil || s == "" {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return t, nil
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
