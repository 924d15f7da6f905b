package grpc

import (
	"context"

	"github.com/dmitrijs2005/expensetracker/internal/common"
	"github.com/dmitrijs2005/expensetracker/internal/docrpc"
	"github.com/dmitrijs2005/expensetracker/internal/logging"
	"github.com/dmitrijs2005/expensetracker/internal/server/users"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) caller(ctx context.Context) (string, error) {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing token")
	}
	return id, nil
}

func accountResponse(acc *users.Account) (*structpb.Struct, error) {
	resp, err := docrpc.Account{
		UserID:    acc.User.ID,
		Username:  acc.User.UserName,
		Token:     acc.Token,
		IsPremium: acc.User.IsPremium,
	}.Struct()
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return resp, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	creds, err := docrpc.ParseCredentials(req)
	if err != nil {
		return nil, toStatus(err)
	}

	acc, err := s.users.Register(ctx, creds.Username, creds.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", logging.FieldUsername, creds.Username)
	return accountResponse(acc)
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	creds, err := docrpc.ParseCredentials(req)
	if err != nil {
		return nil, toStatus(err)
	}

	acc, err := s.users.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return accountResponse(acc)
}

func (s *GRPCServer) SetPremium(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	r, err := docrpc.ParsePremiumRequest(req)
	if err != nil {
		return nil, toStatus(err)
	}

	acc, err := s.users.SetPremium(ctx, userID, r.IsPremium)
	if err != nil {
		return nil, toStatus(err)
	}
	return accountResponse(acc)
}

func (s *GRPCServer) List(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	r, err := docrpc.ParseListRequest(req)
	if err != nil {
		return nil, toStatus(err)
	}

	docs, err := s.documents.List(ctx, userID, r.Collection, r.UserID)
	if err != nil {
		return nil, toStatus(err)
	}

	resp, err := docrpc.ListResponse(docs)
	if err != nil {
		s.logger.Error(ctx, "stored document is not encodable", logging.FieldError, err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return resp, nil
}

func (s *GRPCServer) Insert(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	r, err := docrpc.ParseInsertRequest(req)
	if err != nil {
		return nil, toStatus(err)
	}

	id, err := s.documents.Insert(ctx, userID, r.Collection, r.Document)
	if err != nil {
		return nil, toStatus(err)
	}

	resp, err := docrpc.InsertResponse(id)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return resp, nil
}

func (s *GRPCServer) Update(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	userID, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	r, err := docrpc.ParseUpdateRequest(req)
	if err != nil {
		return nil, toStatus(err)
	}

	if err := s.documents.Update(ctx, userID, r.Collection, r.ID, r.Document); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Delete(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	userID, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	r, err := docrpc.ParseDeleteRequest(req)
	if err != nil {
		return nil, toStatus(err)
	}

	if err := s.documents.Delete(ctx, userID, r.Collection, r.ID); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

// PresignExport is a premium feature.
func (s *GRPCServer) PresignExport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	r, err := docrpc.ParsePresignRequest(req)
	if err != nil {
		return nil, toStatus(err)
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	if !user.IsPremium {
		return nil, toStatus(common.ErrPermissionDenied)
	}

	url, key, err := s.exports.PresignPut(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "presign failed", logging.FieldUserID, userID, logging.FieldError, err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	s.logger.Info(ctx, "export requested", logging.FieldUserID, userID, "file", r.FileName)

	resp, err := docrpc.PresignResponse{URL: url, Key: key}.Struct()
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return resp, nil
}
