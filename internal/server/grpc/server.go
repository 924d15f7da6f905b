// Package grpc exposes the document store, user accounts and export
// presigning over the docrpc service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/expensetracker/internal/docrpc"
	"github.com/dmitrijs2005/expensetracker/internal/logging"
	"github.com/dmitrijs2005/expensetracker/internal/server/documents"
	"github.com/dmitrijs2005/expensetracker/internal/server/exports"
	"github.com/dmitrijs2005/expensetracker/internal/server/models"
	"github.com/dmitrijs2005/expensetracker/internal/server/users"
	"google.golang.org/grpc"
)

type UserService interface {
	Register(ctx context.Context, username, password string) (*users.Account, error)
	Login(ctx context.Context, username, password string) (*users.Account, error)
	SetPremium(ctx context.Context, userID string, isPremium bool) (*users.Account, error)
	Get(ctx context.Context, userID string) (*models.User, error)
}

type DocumentService interface {
	List(ctx context.Context, caller, collection, ownerFilter string) ([]map[string]any, error)
	Insert(ctx context.Context, caller, collection string, body map[string]any) (string, error)
	Update(ctx context.Context, caller, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, caller, collection, id string) error
}

type ExportService interface {
	PresignPut(ctx context.Context, userID string) (url, key string, err error)
}

var (
	_ UserService     = (*users.Service)(nil)
	_ DocumentService = (*documents.Service)(nil)
	_ ExportService   = (*exports.Service)(nil)
)

type GRPCServer struct {
	docrpc.UnimplementedDocumentStoreServer
	address   string
	users     UserService
	documents DocumentService
	exports   ExportService
	logger    logging.Logger
	jwtSecret []byte
	extra     []grpc.UnaryServerInterceptor
}

func NewGRPCServer(a string, l logging.Logger, us UserService, ds DocumentService, es ExportService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With(logging.FieldModule, "grpc_server"),
		users:     us,
		documents: ds,
		exports:   es,
		jwtSecret: []byte(secretKey),
	}
}

// Use appends interceptors that run before logging and authentication.
func (s *GRPCServer) Use(interceptors ...grpc.UnaryServerInterceptor) {
	s.extra = append(s.extra, interceptors...)
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	chain := append(append([]grpc.UnaryServerInterceptor{}, s.extra...), s.loggingInterceptor, s.accessTokenInterceptor)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))
	docrpc.RegisterDocumentStoreServer(srv, s)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", logging.FieldAddress, lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
