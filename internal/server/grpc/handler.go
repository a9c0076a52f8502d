package grpc

import (
	"context"

	"github.com/civicops/drconsole/internal/rpc"
	"github.com/civicops/drconsole/internal/server/auth"
	"github.com/civicops/drconsole/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func badRequest(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}

// fail logs unexpected failures and converts err to a status.
func (s *GRPCServer) fail(ctx context.Context, op string, err error) error {
	st := rpc.StatusError(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, op+" failed", "error", err)
	}
	return st
}

func toWire(r models.Record) rpc.Record {
	return rpc.Record{ID: r.ID, Fields: r.Data, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

func (s *GRPCServer) List(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := rpc.ParseListRequest(in)
	if err != nil {
		return nil, badRequest(err)
	}

	recs, err := s.resources.List(ctx, req.Collection, req.Filters)
	if err != nil {
		return nil, s.fail(ctx, "list", err)
	}

	out := make([]rpc.Record, len(recs))
	for i, r := range recs {
		out[i] = toWire(r)
	}
	return rpc.RecordsProto(out)
}

func (s *GRPCServer) Create(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := rpc.ParseCreateRequest(in)
	if err != nil {
		return nil, badRequest(err)
	}

	var author string
	if c, ok := auth.ClaimsFromContext(ctx); ok {
		author = c.Username
	}

	rec, err := s.resources.Create(ctx, author, req.Collection, req.Fields)
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}
	return toWire(*rec).Proto()
}

func (s *GRPCServer) Update(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := rpc.ParseUpdateRequest(in)
	if err != nil {
		return nil, badRequest(err)
	}

	rec, err := s.resources.Update(ctx, req.Collection, req.ID, req.Patch)
	if err != nil {
		return nil, s.fail(ctx, "update", err)
	}
	return toWire(*rec).Proto()
}

func (s *GRPCServer) Delete(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	req, err := rpc.ParseDeleteRequest(in)
	if err != nil {
		return nil, badRequest(err)
	}

	if err := s.resources.Delete(ctx, req.Collection, req.ID); err != nil {
		return nil, s.fail(ctx, "delete", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Register(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	creds, err := rpc.ParseCredentials(in)
	if err != nil {
		return nil, badRequest(err)
	}

	s.logger.Info(ctx, "Registration request", "username", creds.Username)
	if _, err := s.users.Register(ctx, creds.Username, creds.Password); err != nil {
		return nil, s.fail(ctx, "register", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	creds, err := rpc.ParseCredentials(in)
	if err != nil {
		return nil, badRequest(err)
	}

	tokens, err := s.users.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		return nil, s.fail(ctx, "login", err)
	}
	return rpc.Tokens{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}.Proto()
}

func (s *GRPCServer) RefreshToken(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	refresh, err := rpc.ParseStringMessage(in, rpc.KeyRefreshToken)
	if err != nil {
		return nil, badRequest(err)
	}

	tokens, err := s.users.RefreshToken(ctx, refresh)
	if err != nil {
		return nil, s.fail(ctx, "refresh token", err)
	}
	return rpc.Tokens{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}.Proto()
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) PresignUpload(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	key, url, err := s.documents.PresignUpload(ctx)
	if err != nil {
		return nil, s.fail(ctx, "presign upload", err)
	}
	return rpc.Upload{Key: key, URL: url}.Proto()
}

func (s *GRPCServer) PresignDownload(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	key, err := rpc.ParseStringMessage(in, rpc.KeyKey)
	if err != nil {
		return nil, badRequest(err)
	}

	url, err := s.documents.PresignDownload(ctx, key)
	if err != nil {
		return nil, s.fail(ctx, "presign download", err)
	}
	return rpc.StringMessage(rpc.KeyURL, url)
}
