package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "lorelegacy.importer.v1alpha1.ImporterService"

// Full method names
const (
	ImportMethod          = "/" + ServiceName + "/Import"
	ListCollectionsMethod = "/" + ServiceName + "/ListCollections"
	ListRecordsMethod     = "/" + ServiceName + "/ListRecords"
	GetRecordMethod       = "/" + ServiceName + "/GetRecord"
	RollDamageMethod      = "/" + ServiceName + "/RollDamage"
)

// ImporterServiceServer is the server API of the importer service. Messages
// are protobuf well-known types so no code generation is involved.
type ImporterServiceServer interface {
	Import(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ListCollections(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListRecords(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRecord(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RollDamage(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterImporterServiceServer registers srv with s
func RegisterImporterServiceServer(s grpc.ServiceRegistrar, srv ImporterServiceServer) {
	s.RegisterService(&ImporterServiceDesc, srv)
}

// unary builds the method handler of one RPC
func unary[Req any](
	fullMethod string,
	call func(srv ImporterServiceServer, ctx context.Context, req *Req) (*structpb.Struct, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ImporterServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ImporterServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ImporterServiceDesc is the grpc.ServiceDesc for the importer service
var ImporterServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ImporterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Import",
			Handler:    unary(ImportMethod, ImporterServiceServer.Import),
		},
		{
			MethodName: "ListCollections",
			Handler:    unary(ListCollectionsMethod, ImporterServiceServer.ListCollections),
		},
		{
			MethodName: "ListRecords",
			Handler:    unary(ListRecordsMethod, ImporterServiceServer.ListRecords),
		},
		{
			MethodName: "GetRecord",
			Handler:    unary(GetRecordMethod, ImporterServiceServer.GetRecord),
		},
		{
			MethodName: "RollDamage",
			Handler:    unary(RollDamageMethod, ImporterServiceServer.RollDamage),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lorelegacy/importer/v1alpha1/importer.proto",
}

// ImporterServiceClient is the client API of the importer service
type ImporterServiceClient interface {
	Import(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListCollections(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListRecords(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetRecord(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RollDamage(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type importerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewImporterServiceClient creates a client over cc
func NewImporterServiceClient(cc grpc.ClientConnInterface) ImporterServiceClient {
	return &importerServiceClient{cc: cc}
}

func (c *importerServiceClient) invoke(ctx context.Context, method string, in any, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *importerServiceClient) Import(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ImportMethod, in, opts)
}

func (c *importerServiceClient) ListCollections(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ListCollectionsMethod, in, opts)
}

func (c *importerServiceClient) ListRecords(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ListRecordsMethod, in, opts)
}

func (c *importerServiceClient) GetRecord(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetRecordMethod, in, opts)
}

func (c *importerServiceClient) RollDamage(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, RollDamageMethod, in, opts)
}
