package rpc

import (
	"context"
	"errors"
	"testing"

	"github.com/civicops/drconsole/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// stubServer embeds the interface; only Ping and List are called.
type stubServer struct {
	ResourceServiceServer
	lastList *structpb.Struct
}

func (s *stubServer) Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}

func (s *stubServer) List(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	s.lastList = in
	return RecordsProto(nil)
}

func methodDesc(t *testing.T, name string) grpc.MethodDesc {
	t.Helper()
	for _, m := range ResourceServiceDesc.Methods {
		if m.MethodName == name {
			return m
		}
	}
	t.Fatalf("method %s not registered", name)
	return grpc.MethodDesc{}
}

func TestServiceDesc_MethodNames(t *testing.T) {
	var names []string
	for _, m := range ResourceServiceDesc.Methods {
		names = append(names, "/"+ServiceName+"/"+m.MethodName)
	}
	assert.ElementsMatch(t, []string{
		MethodList, MethodCreate, MethodUpdate, MethodDelete, MethodRegister,
		MethodLogin, MethodRefreshToken, MethodPing, MethodPresignUpload, MethodPresignDownload,
	}, names)
}

func TestHandler_DecodesAndInvokes(t *testing.T) {
	srv := &stubServer{}
	req, err := ListRequest{Collection: "advisories"}.Proto()
	require.NoError(t, err)

	dec := func(v any) error {
		proto.Merge(v.(proto.Message), req)
		return nil
	}
	out, err := methodDesc(t, "List").Handler(srv, context.Background(), dec, nil)
	require.NoError(t, err)

	assert.IsType(t, &structpb.Struct{}, out)
	assert.True(t, proto.Equal(req, srv.lastList))
}

func TestHandler_PassesThroughInterceptor(t *testing.T) {
	srv := &stubServer{}
	var seen string
	interceptor := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
		seen = info.FullMethod
		return h(ctx, req)
	}

	dec := func(v any) error { return nil }
	_, err := methodDesc(t, "Ping").Handler(srv, context.Background(), dec, interceptor)
	require.NoError(t, err)
	assert.Equal(t, MethodPing, seen)
}

func TestHandler_DecodeError(t *testing.T) {
	dec := func(v any) error { return errors.New("garbled") }
	_, err := methodDesc(t, "Ping").Handler(&stubServer{}, context.Background(), dec, nil)
	assert.EqualError(t, err, "garbled")
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
		msg  string
	}{
		{common.ErrTokenExpired, codes.Unauthenticated, "token expired"},
		{common.ErrInvalidToken, codes.Unauthenticated, "unauthorized"},
		{common.ErrorNotFound, codes.NotFound, "not found"},
		{common.ErrorUnknownCollection, codes.InvalidArgument, "unknown collection"},
		{common.ErrorAlreadyExists, codes.AlreadyExists, "already exists"},
		{errors.New("pq: connection reset"), codes.Internal, "internal error"},
	}
	for _, tt := range tests {
		st, ok := status.FromError(StatusError(tt.err))
		require.True(t, ok)
		assert.Equal(t, tt.code, st.Code(), tt.err.Error())
		assert.Equal(t, tt.msg, st.Message())
	}

	assert.NoError(t, StatusError(nil))
	already := status.Error(codes.PermissionDenied, "no")
	assert.Equal(t, already, StatusError(already))
}
