package rpc

import (
	"errors"

	"github.com/civicops/drconsole/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StatusError converts a service error into a gRPC status. Token errors keep
// their sentinel text as the message so clients can tell an expired access
// token from a bad one.
func StatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorUnknownCollection):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrorUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}
