// Package server wires the stockkeeper server together: configuration,
// logging, the Postgres store and its migrations, the auth components and the
// REST and gRPC endpoints. It also handles graceful shutdown on signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/logging"
	"github.com/dmitrijs2005/stockkeeper/internal/server/auth"
	"github.com/dmitrijs2005/stockkeeper/internal/server/config"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/stockkeeper/internal/server/rest"
	"github.com/dmitrijs2005/stockkeeper/internal/server/services"

	gs "github.com/dmitrijs2005/stockkeeper/internal/server/grpc"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"
)

const migrationTimeout = time.Minute

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager

	items *services.ItemService
	rest  *rest.Server
	grpc  *gs.GRPCServer
}

func NewApp(c *config.Config) (*App, error) {
	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return newApp(c, db, repomanager.NewPostgresRepositoryManager(), os.Stdout)
}

func newApp(c *config.Config, db *sql.DB, m repomanager.RepositoryManager, logOut io.Writer) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogFormat, logOut)
	if err != nil {
		return nil, err
	}

	codec, err := auth.NewCodec([]byte(c.SecretKey))
	if err != nil {
		return nil, err
	}

	httpPolicy, err := auth.NewRoutePolicy(c.PublicPaths...)
	if err != nil {
		return nil, fmt.Errorf("public paths: %w", err)
	}
	grpcPolicy, err := auth.NewRoutePolicy(c.GRPCPublicMethods...)
	if err != nil {
		return nil, fmt.Errorf("public gRPC methods: %w", err)
	}

	users := services.NewUserService(db, m, codec, auth.NewBcryptHasher(c.BcryptCost), c)
	items := services.NewItemService(db, m, c)
	transactions := services.NewTransactionService(db, m)
	archive := services.NewArchiveService(items, c)

	app := &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: m,
		items:       items,
		rest: rest.NewServer(c.EndpointAddrHTTP, c.ShutdownTimeout, logger, rest.Deps{
			Users:        users,
			Items:        items,
			Transactions: transactions,
			Archive:      archive,
			DB:           db,
			Verifier:     codec,
			Policy:       httpPolicy,
		}),
	}
	if c.EndpointAddrGRPC != "" {
		app.grpc = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, grpcPolicy, codec, db)
	}
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// prepare migrates the schema and seeds demo data when asked to.
func (app *App) prepare(ctx context.Context) error {
	mctx, cancel := context.WithTimeout(ctx, migrationTimeout)
	defer cancel()

	if err := app.repomanager.RunMigrations(mctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	if app.config.SeedDemoData {
		n, err := app.items.SeedDemo(ctx)
		if err != nil {
			return fmt.Errorf("seed error: %w", err)
		}
		app.logger.Info(ctx, "Demo data seeded", "items", n)
	}
	return nil
}

// Run prepares the database and serves until ctx is cancelled, a signal
// arrives or one of the endpoints fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.prepare(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	if !app.config.ArchiveEnabled() {
		app.logger.Info(ctx, "Archive storage disabled, no bucket configured")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := app.rest.Run(gctx); err != nil {
			app.logger.Error(gctx, "REST endpoint failed", "error", err)
			return fmt.Errorf("rest: %w", err)
		}
		return nil
	})

	if app.grpc != nil {
		g.Go(func() error {
			if err := app.grpc.Run(gctx); err != nil {
				app.logger.Error(gctx, "gRPC endpoint failed", "error", err)
				return fmt.Errorf("grpc: %w", err)
			}
			return nil
		})
	}

	err := g.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return err
}
