package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "dicebot.api.v1alpha1.DiceBotService"

// Method names
const (
	MethodRollDice         = "RollDice"
	MethodGetRollSession   = "GetRollSession"
	MethodClearRollSession = "ClearRollSession"
	MethodResolveTable     = "ResolveTable"
	MethodListCategories   = "ListCategories"
	MethodReloadTables     = "ReloadTables"
	MethodSampleTransition = "SampleTransition"
	MethodStartFlow        = "StartFlow"
	MethodSubmitInput      = "SubmitInput"
	MethodCancelFlow       = "CancelFlow"
)

// DiceBotServiceServer is the server API. Every message is a google.protobuf.Struct.
type DiceBotServiceServer interface {
	RollDice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetRollSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ClearRollSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ResolveTable(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListCategories(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ReloadTables(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SampleTransition(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	StartFlow(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SubmitInput(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CancelFlow(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(srv DiceBotServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func methodDesc(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DiceBotServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(DiceBotServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// DiceBotServiceDesc describes the service for grpc.Server.RegisterService
var DiceBotServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DiceBotServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc(MethodRollDice, DiceBotServiceServer.RollDice),
		methodDesc(MethodGetRollSession, DiceBotServiceServer.GetRollSession),
		methodDesc(MethodClearRollSession, DiceBotServiceServer.ClearRollSession),
		methodDesc(MethodResolveTable, DiceBotServiceServer.ResolveTable),
		methodDesc(MethodListCategories, DiceBotServiceServer.ListCategories),
		methodDesc(MethodReloadTables, DiceBotServiceServer.ReloadTables),
		methodDesc(MethodSampleTransition, DiceBotServiceServer.SampleTransition),
		methodDesc(MethodStartFlow, DiceBotServiceServer.StartFlow),
		methodDesc(MethodSubmitInput, DiceBotServiceServer.SubmitInput),
		methodDesc(MethodCancelFlow, DiceBotServiceServer.CancelFlow),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dicebot/api/v1alpha1/dicebot.proto",
}

// RegisterDiceBotServiceServer registers srv with s
func RegisterDiceBotServiceServer(s grpc.ServiceRegistrar, srv DiceBotServiceServer) {
	s.RegisterService(&DiceBotServiceDesc, srv)
}

// Client calls DiceBotService methods by name
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a client connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with fields as the request struct
func (c *Client) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
