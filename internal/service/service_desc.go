// internal/service/service_desc.go
package service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "solary.telescope.v1.TelescopeService"

// Full method names.
const (
	MethodRegisterReflector   = "/" + ServiceName + "/RegisterReflector"
	MethodRegisterCCD         = "/" + ServiceName + "/RegisterCCD"
	MethodListInstruments     = "/" + ServiceName + "/ListInstruments"
	MethodEvaluateObservation = "/" + ServiceName + "/EvaluateObservation"
)

// TelescopeServiceServer is the server API. Requests and responses are
// google.protobuf.Struct documents; their fields are described on the
// TelescopeService methods.
type TelescopeServiceServer interface {
	RegisterReflector(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RegisterCCD(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListInstruments(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EvaluateObservation(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterTelescopeServiceServer registers srv on s.
func RegisterTelescopeServiceServer(s grpc.ServiceRegistrar, srv TelescopeServiceServer) {
	s.RegisterService(&TelescopeServiceDesc, srv)
}

// TelescopeServiceDesc describes the service for grpc.ServiceRegistrar.
var TelescopeServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TelescopeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RegisterReflector",
			Handler:    unaryHandler(MethodRegisterReflector, TelescopeServiceServer.RegisterReflector),
		},
		{
			MethodName: "RegisterCCD",
			Handler:    unaryHandler(MethodRegisterCCD, TelescopeServiceServer.RegisterCCD),
		},
		{
			MethodName: "ListInstruments",
			Handler:    unaryHandler(MethodListInstruments, TelescopeServiceServer.ListInstruments),
		},
		{
			MethodName: "EvaluateObservation",
			Handler:    unaryHandler(MethodEvaluateObservation, TelescopeServiceServer.EvaluateObservation),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "solary/telescope/v1/telescope.proto",
}

type unaryMethod func(TelescopeServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TelescopeServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TelescopeServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// TelescopeServiceClient is the client API for TelescopeService.
type TelescopeServiceClient interface {
	RegisterReflector(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RegisterCCD(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListInstruments(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	EvaluateObservation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type telescopeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewTelescopeServiceClient returns a client bound to cc.
func NewTelescopeServiceClient(cc grpc.ClientConnInterface) TelescopeServiceClient {
	return &telescopeServiceClient{cc: cc}
}

func (c *telescopeServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *telescopeServiceClient) RegisterReflector(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodRegisterReflector, in, opts)
}

func (c *telescopeServiceClient) RegisterCCD(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodRegisterCCD, in, opts)
}

func (c *telescopeServiceClient) ListInstruments(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodListInstruments, in, opts)
}

func (c *telescopeServiceClient) EvaluateObservation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodEvaluateObservation, in, opts)
}
