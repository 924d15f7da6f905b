package gateway

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/expensetracker/internal/client/models"
	"github.com/dmitrijs2005/expensetracker/internal/common"
	"github.com/dmitrijs2005/expensetracker/internal/docrpc"
	"github.com/dmitrijs2005/expensetracker/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCGateway talks to the DocumentStore service. After a successful Login
// or Register it attaches the access token to every call.
type GRPCGateway struct {
	conn    *grpc.ClientConn
	client  *docrpc.Client
	timeout time.Duration
	logger  logging.Logger

	mu          sync.RWMutex
	accessToken string
}

// NewGRPCGateway dials addr. A zero timeout disables the per-call deadline.
func NewGRPCGateway(addr string, timeout time.Duration, l logging.Logger, opts ...grpc.DialOption) (*GRPCGateway, error) {
	g := &GRPCGateway{timeout: timeout, logger: l.With(logging.FieldModule, "grpc_gateway")}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(g.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	g.conn = conn
	g.client = docrpc.NewClient(conn)
	return g, nil
}

func (g *GRPCGateway) Close() error {
	return g.conn.Close()
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (g *GRPCGateway) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := g.token(); token != "" && !docrpc.PublicMethods[method] {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (g *GRPCGateway) token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.accessToken
}

func (g *GRPCGateway) setToken(token string) {
	g.mu.Lock()
	g.accessToken = token
	g.mu.Unlock()
}

// ClearToken forgets the access token, e.g. on logout.
func (g *GRPCGateway) ClearToken() {
	g.setToken("")
}

func (g *GRPCGateway) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

// Ping checks that the server answers.
func (g *GRPCGateway) Ping(ctx context.Context) error {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	if err := g.client.Ping(ctx); err != nil {
		return mapError("ping", err)
	}
	return nil
}

func (g *GRPCGateway) List(ctx context.Context, userID string) ([]models.Document, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	req, err := docrpc.ListRequest{Collection: common.ExpensesCollection, UserID: userID}.Struct()
	if err != nil {
		return nil, fail("list", ErrInvalidArgument, err)
	}

	resp, err := g.client.List(ctx, req)
	if err != nil {
		return nil, mapError("list", err)
	}

	raw, bad, err := docrpc.ParseListResponse(resp)
	if err != nil {
		return nil, fail("list", ErrInternal, err)
	}
	for _, e := range bad {
		g.logger.Warn(ctx, "skipping non-object document", logging.FieldError, e)
	}

	docs := make([]models.Document, len(raw))
	for i, d := range raw {
		docs[i] = models.Document(d)
	}
	return docs, nil
}

func (g *GRPCGateway) Insert(ctx context.Context, doc models.Document) (string, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	req, err := docrpc.InsertRequest{Collection: common.ExpensesCollection, Document: doc}.Struct()
	if err != nil {
		return "", fail("insert", ErrInvalidArgument, err)
	}

	resp, err := g.client.Insert(ctx, req)
	if err != nil {
		return "", mapError("insert", err)
	}

	id, err := docrpc.ParseInsertResponse(resp)
	if err != nil {
		return "", fail("insert", ErrInternal, err)
	}
	return id, nil
}

func (g *GRPCGateway) Update(ctx context.Context, id string, doc models.Document) error {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	req, err := docrpc.UpdateRequest{Collection: common.ExpensesCollection, ID: id, Document: doc}.Struct()
	if err != nil {
		return fail("update", ErrInvalidArgument, err)
	}

	if err := g.client.Update(ctx, req); err != nil {
		return mapError("update", err)
	}
	return nil
}

func (g *GRPCGateway) Delete(ctx context.Context, id string) error {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	req, err := docrpc.DeleteRequest{Collection: common.ExpensesCollection, ID: id}.Struct()
	if err != nil {
		return fail("delete", ErrInvalidArgument, err)
	}

	if err := g.client.Delete(ctx, req); err != nil {
		return mapError("delete", err)
	}
	return nil
}

func (g *GRPCGateway) Register(ctx context.Context, username, password string) (Account, error) {
	return g.authenticate(ctx, "register", g.client.Register, username, password)
}

func (g *GRPCGateway) Login(ctx context.Context, username, password string) (Account, error) {
	return g.authenticate(ctx, "login", g.client.Login, username, password)
}

type structCall = func(context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error)

func (g *GRPCGateway) authenticate(ctx context.Context, op string, call structCall, username, password string) (Account, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	req, err := docrpc.Credentials{Username: username, Password: password}.Struct()
	if err != nil {
		return Account{}, fail(op, ErrInvalidArgument, err)
	}

	resp, err := call(ctx, req)
	if err != nil {
		return Account{}, mapError(op, err)
	}

	acc, err := accountFrom(op, resp)
	if err != nil {
		return Account{}, err
	}
	g.setToken(acc.Token)
	return acc, nil
}

// SetPremium persists the premium flag of the logged-in user.
func (g *GRPCGateway) SetPremium(ctx context.Context, isPremium bool) (Account, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	req, err := docrpc.PremiumRequest{IsPremium: isPremium}.Struct()
	if err != nil {
		return Account{}, fail("set premium", ErrInvalidArgument, err)
	}

	resp, err := g.client.SetPremium(ctx, req)
	if err != nil {
		return Account{}, mapError("set premium", err)
	}
	return accountFrom("set premium", resp)
}

func (g *GRPCGateway) PresignExport(ctx context.Context, fileName string) (string, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	req, err := docrpc.PresignRequest{FileName: fileName}.Struct()
	if err != nil {
		return "", fail("presign", ErrInvalidArgument, err)
	}

	resp, err := g.client.PresignExport(ctx, req)
	if err != nil {
		return "", mapError("presign", err)
	}

	p, err := docrpc.ParsePresignResponse(resp)
	if err != nil {
		return "", fail("presign", ErrInternal, err)
	}
	return p.URL, nil
}

func accountFrom(op string, resp *structpb.Struct) (Account, error) {
	a, err := docrpc.ParseAccount(resp)
	if err != nil {
		return Account{}, fail(op, ErrInternal, err)
	}
	return Account{UserID: a.UserID, Username: a.Username, Token: a.Token, IsPremium: a.IsPremium}, nil
}

// mapError translates a gRPC status into a *Error of the matching kind.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fail(op, ErrUnavailable, err)
	}

	st, ok := status.FromError(err)
	if !ok {
		return fail(op, ErrInternal, err)
	}

	var kind error
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		kind = ErrUnavailable
	case codes.Unauthenticated:
		kind = ErrUnauthorized
	case codes.PermissionDenied:
		kind = ErrPermissionDenied
	case codes.NotFound:
		kind = ErrNotFound
	case codes.AlreadyExists:
		kind = ErrAlreadyExists
	case codes.InvalidArgument:
		kind = ErrInvalidArgument
	default:
		kind = ErrInternal
	}
	return fail(op, kind, err)
}
