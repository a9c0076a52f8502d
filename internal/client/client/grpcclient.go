package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/civicops/drconsole/internal/client/models"
	"github.com/civicops/drconsole/internal/common"
	"github.com/civicops/drconsole/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.ResourceServiceClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

// SetTokens replaces the stored token pair.
func (s *GRPCClient) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken = access, refresh
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if rpc.PublicMethods[method] {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, refresh := s.tokens()
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	in, err := rpc.StringMessage(rpc.KeyRefreshToken, refresh)
	if err != nil {
		return err
	}
	out, err := s.client.RefreshToken(ctx, in)
	if err != nil {
		return err
	}
	pair, err := rpc.ParseTokens(out)
	if err != nil {
		return err
	}
	s.SetTokens(pair.AccessToken, pair.RefreshToken)

	return invoker(withAccessToken(ctx, pair.AccessToken), method, req, reply, cc, opts...)
}

// NewGRPCClient dials endpointURL lazily; the first call opens the
// connection.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewResourceServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, username, password string) error {
	req, err := rpc.Credentials{Username: username, Password: password}.Proto()
	if err != nil {
		return err
	}
	if _, err := s.client.Register(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Login(ctx context.Context, username, password string) error {
	req, err := rpc.Credentials{Username: username, Password: password}.Proto()
	if err != nil {
		return err
	}
	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return s.mapError(err)
	}
	pair, err := rpc.ParseTokens(resp)
	if err != nil {
		return err
	}
	s.SetTokens(pair.AccessToken, pair.RefreshToken)
	return nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	if _, err := s.client.Ping(ctx, &emptypb.Empty{}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) List(ctx context.Context, collection string, filters map[string]string) ([]models.Resource, error) {
	req, err := rpc.ListRequest{Collection: collection, Filters: filters}.Proto()
	if err != nil {
		return nil, err
	}
	resp, err := s.client.List(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	recs, err := rpc.ParseRecords(resp)
	if err != nil {
		return nil, err
	}
	out := make([]models.Resource, len(recs))
	for i, r := range recs {
		out[i] = toResource(r)
	}
	return out, nil
}

func (s *GRPCClient) Create(ctx context.Context, collection string, fields map[string]any) (models.Resource, error) {
	req, err := rpc.CreateRequest{Collection: collection, Fields: fields}.Proto()
	if err != nil {
		return models.Resource{}, err
	}
	return s.record(s.client.Create(ctx, req))
}

func (s *GRPCClient) Update(ctx context.Context, collection, id string, patch map[string]any) (models.Resource, error) {
	req, err := rpc.UpdateRequest{Collection: collection, ID: id, Patch: patch}.Proto()
	if err != nil {
		return models.Resource{}, err
	}
	return s.record(s.client.Update(ctx, req))
}

func (s *GRPCClient) Delete(ctx context.Context, collection, id string) error {
	req, err := rpc.DeleteRequest{Collection: collection, ID: id}.Proto()
	if err != nil {
		return err
	}
	if _, err := s.client.Delete(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) PresignUpload(ctx context.Context) (rpc.Upload, error) {
	resp, err := s.client.PresignUpload(ctx, &structpb.Struct{})
	if err != nil {
		return rpc.Upload{}, s.mapError(err)
	}
	return rpc.ParseUpload(resp)
}

func (s *GRPCClient) PresignDownload(ctx context.Context, key string) (string, error) {
	req, err := rpc.StringMessage(rpc.KeyKey, key)
	if err != nil {
		return "", err
	}
	resp, err := s.client.PresignDownload(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}
	return rpc.ParseStringMessage(resp, rpc.KeyURL)
}

func (s *GRPCClient) record(resp *structpb.Struct, err error) (models.Resource, error) {
	if err != nil {
		return models.Resource{}, s.mapError(err)
	}
	rec, err := rpc.ParseRecord(resp)
	if err != nil {
		return models.Resource{}, err
	}
	return toResource(rec), nil
}

func toResource(r rpc.Record) models.Resource {
	return models.Resource{ID: r.ID, Fields: r.Fields, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrorValidation, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
