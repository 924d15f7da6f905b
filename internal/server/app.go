// Package server wires the expense tracker server: storage backend,
// services and the gRPC endpoint, with graceful shutdown on signals.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/expensetracker/internal/logging"
	"github.com/dmitrijs2005/expensetracker/internal/server/config"
	"github.com/dmitrijs2005/expensetracker/internal/server/documents"
	"github.com/dmitrijs2005/expensetracker/internal/server/exports"
	"github.com/dmitrijs2005/expensetracker/internal/server/metrics"
	"github.com/dmitrijs2005/expensetracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/expensetracker/internal/server/users"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/expensetracker/internal/server/grpc"
)

// errShutdownSignal ends the errgroup when the process is asked to stop.
var errShutdownSignal = errors.New("shutdown signal received")

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	server  *gs.GRPCServer
	metrics *metrics.Metrics
	// signals stop the app; empty disables signal handling.
	signals []os.Signal
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repos, err := repomanager.Open(ctx, c.Storage, c.StorageDSN())
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	logger.Info(ctx, "storage ready", logging.FieldBackend, c.Storage)

	us := users.NewService(repos.Users(), []byte(c.SecretKey), c.AccessTokenValidityDuration, logger)
	ds := documents.NewService(repos.Documents(), logger)
	es := exports.NewService(exports.S3Config{
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	}, logger)

	m := metrics.New()
	srv := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, us, ds, es, c.SecretKey)
	srv.Use(m.UnaryInterceptor)

	return &App{
		config:  c,
		logger:  logger.With(logging.FieldModule, "app"),
		repos:   repos,
		server:  srv,
		metrics: m,
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT},
	}, nil
}

func (app *App) waitForSignal(ctx context.Context) error {
	if len(app.signals) == 0 {
		<-ctx.Done()
		return nil
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, app.signals...)
	defer signal.Stop(sigs)

	select {
	case sig := <-sigs:
		app.logger.Info(ctx, "signal received", "signal", sig.String())
		return errShutdownSignal
	case <-ctx.Done():
		return nil
	}
}

// Run serves until ctx is cancelled, a signal arrives or the server fails.
// Storage is closed on the way out.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.waitForSignal(gctx) })
	g.Go(func() error { return app.server.Run(gctx) })
	if addr := app.config.MetricsAddr; addr != "" {
		app.logger.Info(ctx, "serving metrics", logging.FieldAddress, addr)
		g.Go(func() error { return app.metrics.Serve(gctx, addr) })
	}

	err := g.Wait()
	if errors.Is(err, errShutdownSignal) {
		err = nil
	}

	if cerr := app.repos.Close(); cerr != nil {
		app.logger.Error(ctx, "error closing storage", logging.FieldError, cerr)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
