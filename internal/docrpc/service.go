// Package docrpc describes the DocumentStore gRPC service shared by the
// expensetracker client and server.
//
// The service carries schemaless documents, so every request and response
// body is a google.protobuf.Struct; the typed helpers in messages.go build
// and read them. The descriptor below is what protoc-gen-go-grpc would emit
// for:
//
//	service DocumentStore {
//	  rpc Ping(google.protobuf.Empty) returns (google.protobuf.Empty);
//	  rpc Register(google.protobuf.Struct) returns (google.protobuf.Struct);
//	  rpc Login(google.protobuf.Struct) returns (google.protobuf.Struct);
//	  rpc SetPremium(google.protobuf.Struct) returns (google.protobuf.Struct);
//	  rpc List(google.protobuf.Struct) returns (google.protobuf.Struct);
//	  rpc Insert(google.protobuf.Struct) returns (google.protobuf.Struct);
//	  rpc Update(google.protobuf.Struct) returns (google.protobuf.Empty);
//	  rpc Delete(google.protobuf.Struct) returns (google.protobuf.Empty);
//	  rpc PresignExport(google.protobuf.Struct) returns (google.protobuf.Struct);
//	}
package docrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "expensetracker.docstore.v1.DocumentStore"

const (
	MethodPing          = "/" + ServiceName + "/Ping"
	MethodRegister      = "/" + ServiceName + "/Register"
	MethodLogin         = "/" + ServiceName + "/Login"
	MethodSetPremium    = "/" + ServiceName + "/SetPremium"
	MethodList          = "/" + ServiceName + "/List"
	MethodInsert        = "/" + ServiceName + "/Insert"
	MethodUpdate        = "/" + ServiceName + "/Update"
	MethodDelete        = "/" + ServiceName + "/Delete"
	MethodPresignExport = "/" + ServiceName + "/PresignExport"
)

// PublicMethods can be called without an access token.
var PublicMethods = map[string]bool{
	MethodPing:     true,
	MethodRegister: true,
	MethodLogin:    true,
}

// DocumentStoreServer is the server API for the DocumentStore service.
type DocumentStoreServer interface {
	Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetPremium(context.Context, *structpb.Struct) (*structpb.Struct, error)
	List(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Insert(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Update(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Delete(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	PresignExport(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedDocumentStoreServer can be embedded to get forward-compatible
// implementations.
type UnimplementedDocumentStoreServer struct{}

func (UnimplementedDocumentStoreServer) Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedDocumentStoreServer) Register(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedDocumentStoreServer) Login(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedDocumentStoreServer) SetPremium(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method SetPremium not implemented")
}
func (UnimplementedDocumentStoreServer) List(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method List not implemented")
}
func (UnimplementedDocumentStoreServer) Insert(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Insert not implemented")
}
func (UnimplementedDocumentStoreServer) Update(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Update not implemented")
}
func (UnimplementedDocumentStoreServer) Delete(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Delete not implemented")
}
func (UnimplementedDocumentStoreServer) PresignExport(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method PresignExport not implemented")
}

// RegisterDocumentStoreServer attaches srv to s.
func RegisterDocumentStoreServer(s grpc.ServiceRegistrar, srv DocumentStoreServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unary adapts a typed server method to a grpc.MethodHandler.
func unary[Req any, Resp any](fullMethod string, call func(DocumentStoreServer, context.Context, *Req) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DocumentStoreServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DocumentStoreServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc is the grpc.ServiceDesc for the DocumentStore service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DocumentStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary[emptypb.Empty](MethodPing, DocumentStoreServer.Ping)},
		{MethodName: "Register", Handler: unary[structpb.Struct](MethodRegister, DocumentStoreServer.Register)},
		{MethodName: "Login", Handler: unary[structpb.Struct](MethodLogin, DocumentStoreServer.Login)},
		{MethodName: "SetPremium", Handler: unary[structpb.Struct](MethodSetPremium, DocumentStoreServer.SetPremium)},
		{MethodName: "List", Handler: unary[structpb.Struct](MethodList, DocumentStoreServer.List)},
		{MethodName: "Insert", Handler: unary[structpb.Struct](MethodInsert, DocumentStoreServer.Insert)},
		{MethodName: "Update", Handler: unary[structpb.Struct](MethodUpdate, DocumentStoreServer.Update)},
		{MethodName: "Delete", Handler: unary[structpb.Struct](MethodDelete, DocumentStoreServer.Delete)},
		{MethodName: "PresignExport", Handler: unary[structpb.Struct](MethodPresignExport, DocumentStoreServer.PresignExport)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "expensetracker/docstore/v1/docstore.proto",
}
