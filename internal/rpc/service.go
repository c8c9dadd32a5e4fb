package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "reform.v1.ReformService"

// Method names.
const (
	MethodScore     = "Score"
	MethodAttempt   = "Attempt"
	MethodCredit    = "Credit"
	MethodGetLedger = "GetLedger"
)

// #region server-api
// ReformServer is the server API of ReformService. Every body is a
// google.protobuf.Struct holding the JSON form of the request and reply types.
type ReformServer interface {
	Score(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Attempt(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Credit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLedger(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterReformServer registers srv on s.
func RegisterReformServer(s grpc.ServiceRegistrar, srv ReformServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes ReformService for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReformServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodScore, Handler: unary(MethodScore, ReformServer.Score)},
		{MethodName: MethodAttempt, Handler: unary(MethodAttempt, ReformServer.Attempt)},
		{MethodName: MethodCredit, Handler: unary(MethodCredit, ReformServer.Credit)},
		{MethodName: MethodGetLedger, Handler: unary(MethodGetLedger, ReformServer.GetLedger)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "reform/v1/reform.proto",
}

// #endregion server-api

// #region handlers
func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary(method string, call func(ReformServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ReformServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ReformServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// #endregion handlers
