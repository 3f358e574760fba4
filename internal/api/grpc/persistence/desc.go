package persistence

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "jsonpersistence.v1.PersistenceService"

// Full method names.
const (
	StoreMethod   = "/" + ServiceName + "/Store"
	QueryMethod   = "/" + ServiceName + "/Query"
	GetNameMethod = "/" + ServiceName + "/GetName"
)

// PersistenceServer is the server API of the persistence service.
type PersistenceServer interface {
	// Store persists {item, type, state, alias?} and returns the written record.
	Store(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	// Query returns zero or one record for {item}.
	Query(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error)
	// GetName returns the service identifier.
	GetName(ctx context.Context, req *emptypb.Empty) (*wrapperspb.StringValue, error)
}

// RegisterPersistenceServer registers srv on the gRPC server.
func RegisterPersistenceServer(registrar grpc.ServiceRegistrar, srv PersistenceServer) {
	registrar.RegisterService(&serviceDesc, srv)
}

//nolint:gochecknoglobals // Service descriptors are static registration data.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PersistenceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Store",
			Handler:    storeHandler,
		},
		{
			MethodName: "Query",
			Handler:    queryHandler,
		},
		{
			MethodName: "GetName",
			Handler:    getNameHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jsonpersistence/v1/persistence.proto",
}

func storeHandler(
	srv any,
	ctx context.Context, //nolint:revive // Argument order is fixed by grpc.MethodDesc.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(PersistenceServer).Store(ctx, in) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: StoreMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PersistenceServer).Store(ctx, req.(*structpb.Struct)) //nolint:forcetypeassert // See above.
	}

	return interceptor(ctx, in, info, handler)
}

func queryHandler(
	srv any,
	ctx context.Context, //nolint:revive // Argument order is fixed by grpc.MethodDesc.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(PersistenceServer).Query(ctx, in) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: QueryMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PersistenceServer).Query(ctx, req.(*structpb.Struct)) //nolint:forcetypeassert // See above.
	}

	return interceptor(ctx, in, info, handler)
}

func getNameHandler(
	srv any,
	ctx context.Context, //nolint:revive // Argument order is fixed by grpc.MethodDesc.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(PersistenceServer).GetName(ctx, in) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetNameMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PersistenceServer).GetName(ctx, req.(*emptypb.Empty)) //nolint:forcetypeassert // See above.
	}

	return interceptor(ctx, in, info, handler)
}
