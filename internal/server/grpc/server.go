// Package grpc serves drconsole.v1.ResourceService over gRPC on top of the
// server services.
package grpc

import (
	"context"
	"net"

	"github.com/civicops/drconsole/internal/logging"
	"github.com/civicops/drconsole/internal/rpc"
	"github.com/civicops/drconsole/internal/server/models"
	"github.com/civicops/drconsole/internal/server/services"
	"google.golang.org/grpc"
)

// UserService is what the handlers need from services.UserService.
type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// ResourceService is what the handlers need from services.ResourceService.
type ResourceService interface {
	List(ctx context.Context, collection string, filters map[string]string) ([]models.Record, error)
	Create(ctx context.Context, author, collection string, fields map[string]any) (*models.Record, error)
	Update(ctx context.Context, collection, id string, patch map[string]any) (*models.Record, error)
	Delete(ctx context.Context, collection, id string) error
}

// DocumentService is what the handlers need from services.DocumentService.
type DocumentService interface {
	PresignUpload(ctx context.Context) (string, string, error)
	PresignDownload(ctx context.Context, key string) (string, error)
}

type GRPCServer struct {
	address      string
	users        UserService
	resources    ResourceService
	documents    DocumentService
	logger       logging.Logger
	jwtSecret    []byte
	interceptors []grpc.UnaryServerInterceptor
}

// NewGRPCServer wires the handlers. extra interceptors run before the
// access token check, so they also see rejected calls.
func NewGRPCServer(a string, l logging.Logger, us UserService, rs ResourceService, ds DocumentService, secretKey string, extra ...grpc.UnaryServerInterceptor) *GRPCServer {
	return &GRPCServer{
		address:      a,
		logger:       l.With("module", "grpc_server"),
		users:        us,
		resources:    rs,
		documents:    ds,
		jwtSecret:    []byte(secretKey),
		interceptors: extra,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	chain := append(append([]grpc.UnaryServerInterceptor{}, s.interceptors...), s.accessTokenInterceptor)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))
	rpc.RegisterResourceServiceServer(srv, s)
	return srv
}

// Run serves on the configured address until ctx is done, then stops
// gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run over an existing listener.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}
