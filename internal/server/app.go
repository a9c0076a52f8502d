// Package server assembles the resource server: PostgreSQL storage with
// migrations, the services, the gRPC endpoint and the metrics endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/civicops/drconsole/internal/logging"
	"github.com/civicops/drconsole/internal/server/config"
	"github.com/civicops/drconsole/internal/server/metrics"
	"github.com/civicops/drconsole/internal/server/repositories/repomanager"
	"github.com/civicops/drconsole/internal/server/services"

	gs "github.com/civicops/drconsole/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	grpc    *gs.GRPCServer
	metrics *metrics.Metrics
}

// NewApp opens the database, applies migrations and wires the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.Debug)

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	m := metrics.New()
	us := services.NewUserService(db, rm, c, logger)
	rs := services.NewResourceService(db, rm, logger)
	ds := services.NewDocumentService(c, logger)

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		metrics: m,
		grpc:    gs.NewGRPCServer(c.EndpointAddrGRPC, logger, us, rs, ds, c.SecretKey, m.UnaryInterceptor),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a signal arrives, ctx is done or an endpoint fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := app.grpc.Run(ctx); err != nil {
			app.logger.Error(ctx, "grpc server", "error", err)
			cancelFunc()
		}
	}()
	go func() {
		defer wg.Done()
		if err := app.metrics.Serve(ctx, app.config.MetricsAddr, app.logger); err != nil {
			app.logger.Error(ctx, "metrics endpoint", "error", err)
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(context.Background(), "closing database", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
