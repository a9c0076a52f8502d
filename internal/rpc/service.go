// Package rpc describes the drconsole.v1.ResourceService gRPC service.
//
// The service is declared by hand instead of from generated code. Every
// method exchanges protobuf well-known types (structpb.Struct for payloads,
// emptypb.Empty when there is nothing to send), so the default proto codec
// handles the wire and messages.go gives the payloads their Go shape.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "drconsole.v1.ResourceService"

// Full method names, as seen by interceptors.
const (
	MethodList            = "/" + ServiceName + "/List"
	MethodCreate          = "/" + ServiceName + "/Create"
	MethodUpdate          = "/" + ServiceName + "/Update"
	MethodDelete          = "/" + ServiceName + "/Delete"
	MethodRegister        = "/" + ServiceName + "/Register"
	MethodLogin           = "/" + ServiceName + "/Login"
	MethodRefreshToken    = "/" + ServiceName + "/RefreshToken"
	MethodPing            = "/" + ServiceName + "/Ping"
	MethodPresignUpload   = "/" + ServiceName + "/PresignUpload"
	MethodPresignDownload = "/" + ServiceName + "/PresignDownload"
)

// PublicMethods may be called without an access token.
var PublicMethods = map[string]bool{
	MethodRegister:     true,
	MethodLogin:        true,
	MethodRefreshToken: true,
	MethodPing:         true,
}

// ResourceServiceServer is the server API for ResourceService.
type ResourceServiceServer interface {
	List(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Create(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Update(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Delete(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Register(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	PresignUpload(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PresignDownload(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// unary builds the method descriptor for one server method. Req and Resp
// are the message types; call is a method expression on the interface.
func unary[Req, Resp any](name string, call func(ResourceServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(ResourceServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ResourceServiceDesc is the grpc.ServiceDesc for ResourceService.
var ResourceServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ResourceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("List", ResourceServiceServer.List),
		unary("Create", ResourceServiceServer.Create),
		unary("Update", ResourceServiceServer.Update),
		unary("Delete", ResourceServiceServer.Delete),
		unary("Register", ResourceServiceServer.Register),
		unary("Login", ResourceServiceServer.Login),
		unary("RefreshToken", ResourceServiceServer.RefreshToken),
		unary("Ping", ResourceServiceServer.Ping),
		unary("PresignUpload", ResourceServiceServer.PresignUpload),
		unary("PresignDownload", ResourceServiceServer.PresignDownload),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "drconsole/v1/resource_service",
}

func RegisterResourceServiceServer(s grpc.ServiceRegistrar, srv ResourceServiceServer) {
	s.RegisterService(&ResourceServiceDesc, srv)
}

// ResourceServiceClient is the client API for ResourceService.
type ResourceServiceClient interface {
	List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Update(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Delete(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RefreshToken(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	PresignUpload(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	PresignDownload(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type resourceServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewResourceServiceClient(cc grpc.ClientConnInterface) ResourceServiceClient {
	return &resourceServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *resourceServiceClient) List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, MethodList, in, opts)
}

func (c *resourceServiceClient) Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, MethodCreate, in, opts)
}

func (c *resourceServiceClient) Update(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, MethodUpdate, in, opts)
}

func (c *resourceServiceClient) Delete(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, MethodDelete, in, opts)
}

func (c *resourceServiceClient) Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, MethodRegister, in, opts)
}

func (c *resourceServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, MethodLogin, in, opts)
}

func (c *resourceServiceClient) RefreshToken(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *resourceServiceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, MethodPing, in, opts)
}

func (c *resourceServiceClient) PresignUpload(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, MethodPresignUpload, in, opts)
}

func (c *resourceServiceClient) PresignDownload(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, MethodPresignDownload, in, opts)
}
