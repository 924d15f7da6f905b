package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/expensetracker/internal/client/config"
	"github.com/dmitrijs2005/expensetracker/internal/client/export"
	"github.com/dmitrijs2005/expensetracker/internal/client/gateway"
	"github.com/dmitrijs2005/expensetracker/internal/client/session"
	"github.com/dmitrijs2005/expensetracker/internal/client/store"
	"github.com/dmitrijs2005/expensetracker/internal/logging"
	"github.com/dmitrijs2005/expensetracker/internal/netx"
)

// remote is what a backend provides. Only the record gateway and the
// authenticator are mandatory.
type remote interface {
	gateway.Gateway
	gateway.Authenticator
}

type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config   *config.Config
	store    *store.Store
	sessions *session.Manager
	exporter *export.Exporter
	remote   remote
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	theme    theme
}

// NewApp builds the backend selected by c and wires the client on top of it,
// reading commands from stdin.
func NewApp(c *config.Config, l logging.Logger) (*App, error) {
	var r remote
	switch c.Backend {
	case config.BackendMemory:
		r = gateway.NewMemoryGateway()
	default:
		g, err := gateway.NewGRPCGateway(c.ServerAddr, c.RequestTimeout, l)
		if err != nil {
			return nil, err
		}
		r = g
	}
	return newApp(c, r, bufio.NewReader(os.Stdin), os.Stdout, l), nil
}

func newApp(c *config.Config, r remote, in *bufio.Reader, out io.Writer, l logging.Logger) *App {
	st := store.New(r,
		store.WithLogger(l),
		store.WithResortOnMutation(c.ResortOnMutation),
	)

	opts := []export.Option{export.WithLogger(l)}
	if p, ok := r.(gateway.Presigner); ok {
		opts = append(opts, export.WithUpload(p, netx.NewUploader(nil)))
	}

	return &App{
		config:   c,
		store:    st,
		sessions: session.NewManager(r, st, l),
		exporter: export.New(st, opts...),
		remote:   r,
		logger:   l.With(logging.FieldModule, "cli"),
		reader:   in,
		out:      out,
	}
}

// Run checks reachability, then serves the REPL until exit or end of input.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	if p, ok := a.remote.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			a.logger.Warn(ctx, "document store unreachable", logging.FieldAddress, a.config.ServerAddr, logging.FieldError, err)
			fmt.Fprintf(a.out, "Warning: server %s is not reachable\n", a.config.ServerAddr)
		}
	}
	if a.config.Backend == config.BackendMemory {
		fmt.Fprintln(a.out, "Running against the in-memory backend; data is lost on exit.")
	}

	fmt.Fprintln(a.out, "Welcome to the expense tracker (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) close() {
	if c, ok := a.remote.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.logger.Warn(context.Background(), "close backend", logging.FieldError, err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Current() != nil
}

func (a *App) getStatus() string {
	id := a.sessions.Current()
	if id == nil {
		return ""
	}
	s := id.Username
	if id.IsPremium {
		s += " premium"
	}
	if e := a.store.Snapshot().Editing; e != nil {
		s += " editing " + e.ID
	}
	return fmt.Sprintf("(%s)", s)
}
