package gameserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "solarbloom.game.v1.GameService"

const (
	methodCreateGame   = "/" + ServiceName + "/CreateGame"
	methodGetGameState = "/" + ServiceName + "/GetGameState"
	methodSubmitAction = "/" + ServiceName + "/SubmitAction"
	methodEndTurn      = "/" + ServiceName + "/EndTurn"
	methodDeleteGame   = "/" + ServiceName + "/DeleteGame"
)

// GameServiceServer is the server API for the game service. Requests and
// responses are google.protobuf.Struct documents.
type GameServiceServer interface {
	CreateGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetGameState(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitAction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EndTurn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedGameServiceServer can be embedded to have forward compatible implementations
type UnimplementedGameServiceServer struct{}

func (UnimplementedGameServiceServer) CreateGame(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateGame not implemented")
}
func (UnimplementedGameServiceServer) GetGameState(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetGameState not implemented")
}
func (UnimplementedGameServiceServer) SubmitAction(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitAction not implemented")
}
func (UnimplementedGameServiceServer) EndTurn(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method EndTurn not implemented")
}
func (UnimplementedGameServiceServer) DeleteGame(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteGame not implemented")
}

// RegisterGameServiceServer registers srv with s
func RegisterGameServiceServer(s grpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&GameService_ServiceDesc, srv)
}

type unaryMethod func(GameServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a typed method to the grpc.MethodDesc handler signature
func unaryHandler(fullMethod string, call unaryMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(GameServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(GameServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// GameService_ServiceDesc is the grpc.ServiceDesc for the game service
var GameService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateGame", Handler: unaryHandler(methodCreateGame, GameServiceServer.CreateGame)},
		{MethodName: "GetGameState", Handler: unaryHandler(methodGetGameState, GameServiceServer.GetGameState)},
		{MethodName: "SubmitAction", Handler: unaryHandler(methodSubmitAction, GameServiceServer.SubmitAction)},
		{MethodName: "EndTurn", Handler: unaryHandler(methodEndTurn, GameServiceServer.EndTurn)},
		{MethodName: "DeleteGame", Handler: unaryHandler(methodDeleteGame, GameServiceServer.DeleteGame)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "solarbloom/game/v1/game.proto",
}

// GameServiceClient is the client API for the game service
type GameServiceClient interface {
	CreateGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetGameState(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SubmitAction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	EndTurn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type gameServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewGameServiceClient creates a client bound to cc
func NewGameServiceClient(cc grpc.ClientConnInterface) GameServiceClient {
	return &gameServiceClient{cc}
}

func (c *gameServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gameServiceClient) CreateGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodCreateGame, in, opts)
}

func (c *gameServiceClient) GetGameState(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodGetGameState, in, opts)
}

func (c *gameServiceClient) SubmitAction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodSubmitAction, in, opts)
}

func (c *gameServiceClient) EndTurn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodEndTurn, in, opts)
}

func (c *gameServiceClient) DeleteGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodDeleteGame, in, opts)
}
