package grpc

import (
	"context"

	"github.com/civicops/drconsole/internal/common"
	"github.com/civicops/drconsole/internal/rpc"
	"github.com/civicops/drconsole/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// accessTokenInterceptor requires a valid access token on every method
// except rpc.PublicMethods and stores its claims in the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if rpc.PublicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			accessToken = values[0]
		}
	}
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		s.logger.Debug(ctx, "rejected access token", "method", info.FullMethod, "error", err)
		return nil, rpc.StatusError(err)
	}

	return handler(auth.WithClaims(ctx, claims), req)
}
