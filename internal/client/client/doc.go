// Package client is the console's connection to the resource server.
//
// GRPCClient implements syncstore.RemoteResourceClient over the hand-declared
// drconsole.v1.ResourceService. An interceptor attaches the access token to
// every call and, when the server answers Unauthenticated with "token
// expired", exchanges the refresh token once and retries the call.
//
// gRPC status codes are mapped back onto the sentinels in internal/common,
// so callers match failures with errors.Is:
//
//	codes.NotFound                          -> common.ErrorNotFound
//	codes.InvalidArgument                   -> common.ErrorValidation
//	codes.AlreadyExists                     -> common.ErrorAlreadyExists
//	codes.Unauthenticated, PermissionDenied -> ErrUnauthorized
//	codes.Unavailable, DeadlineExceeded     -> ErrUnavailable
package client
