package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haguru/signup/config"
	"github.com/haguru/signup/internal/interfaces"
	signupmetrics "github.com/haguru/signup/internal/metrics"
	"github.com/haguru/signup/internal/middleware"
	"github.com/haguru/signup/internal/routes"
	"github.com/haguru/signup/internal/server"
	memoryUserRepo "github.com/haguru/signup/internal/userrepo/memory"
	mongoUserRepo "github.com/haguru/signup/internal/userrepo/mongo"
	postgresUserRepo "github.com/haguru/signup/internal/userrepo/postgres"
	sqliteUserRepo "github.com/haguru/signup/internal/userrepo/sqlite"
	"github.com/haguru/signup/internal/userservice"
	"github.com/haguru/signup/pkg/databases/mongo"
	"github.com/haguru/signup/pkg/databases/postgres"
	"github.com/haguru/signup/pkg/metrics"
	"github.com/haguru/signup/pkg/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	connectTimeout         = 30 * time.Second
)

// App represents the main application, containing server and configuration.
// It initializes with a config file, validates settings, and manages routes.
type App struct {
	Server   interfaces.Server
	Config   *config.ServiceConfig
	Logger   interfaces.Logger
	UserRepo interfaces.UserRepository
}

// NewApp creates and configures a new App instance.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.ReadLocalConfig(configPath)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(structValidator.New(), cfg); err != nil {
		return nil, err
	}

	logger := zerolog.NewZerologLogger(cfg.ServiceName)
	logger.SetLevel(cfg.LogLevel)

	app := &App{
		Config: cfg,
		Logger: logger,
		Server: server.NewServer(cfg.Host, cfg.Port, logger),
	}

	metricsInstance := app.initializeMetrics()

	userRepo, err := app.initializeUserRepo()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize user repository: %w", err)
	}
	app.UserRepo = userRepo

	userService := userservice.NewUserService(userRepo, logger)
	routeLogger := logger.WithContext(map[string]interface{}{"route": routes.SignupRouteAPI})
	route := routes.NewRoute(metricsInstance, userService, routeLogger)

	metricsHandler := promhttp.HandlerFor(
		metricsInstance.GetRegistry(),
		promhttp.HandlerOpts{})
	tracedMetricsHandler := otelhttp.NewHandler(metricsHandler, routes.MetricsRouteAPI)

	if err = app.Server.AddRoute(routes.MetricsRouteAPI, tracedMetricsHandler.ServeHTTP); err != nil {
		return nil, fmt.Errorf("failed to add metrics route: %w", err)
	}

	signupHandler := middleware.Chain(
		otelhttp.NewHandler(http.HandlerFunc(route.Signup), routes.SignupRouteAPI),
		middleware.RequestLogger(logger),
		middleware.Recover(logger),
	)
	if err = app.Server.AddRoute(routes.SignupRouteAPI, signupHandler.ServeHTTP); err != nil {
		return nil, fmt.Errorf("failed to add signup route: %w", err)
	}

	return app, nil
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (app *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.serve(ctx)
}

func (app *App) serve(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- app.Server.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serveErr:
		runErr = err
	case <-ctx.Done():
		app.Logger.Info("Shutting down")
	}

	timeout := app.Config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("failed to shut down server: %w", err))
	}
	if err := app.UserRepo.Close(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("failed to close user repository: %w", err))
	}
	return runErr
}

func (app *App) initializeMetrics() interfaces.Metrics {
	appMetrics := metrics.NewMetrics(app.Config.ServiceName)
	signupmetrics.RegisterSignupMetrics(appMetrics)
	return appMetrics
}

func (app *App) initializeUserRepo() (interfaces.UserRepository, error) {
	var userRepo interfaces.UserRepository
	var err error

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	dbConfig := app.Config.Database
	switch dbConfig.Type {
	case config.DatabaseMongo:
		var dbClient interfaces.DBClient
		dbClient, err = mongo.NewMongoDB(&dbConfig.MongoDB, app.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
		}
		if err = dbClient.Connect(ctx, dbConfig.MongoDB.DSN); err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		userRepo, err = mongoUserRepo.NewMongoUserRepository(dbClient)

	case config.DatabasePostgres:
		dbClient := postgres.NewPostgresDatabaseClient(&dbConfig.Postgres)
		if err = dbClient.Connect(ctx, dbConfig.Postgres.DSN); err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		userRepo, err = postgresUserRepo.NewPostgresUserRepository(dbClient)

	case config.DatabaseSQLite:
		userRepo, err = sqliteUserRepo.Open(dbConfig.SQLite.Path)

	case config.DatabaseMemory:
		app.Logger.Warn("Using the in-memory user store, accounts are lost on restart")
		userRepo = memoryUserRepo.NewMemoryUserRepository()

	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbConfig.Type)
	}
	if err != nil {
		return nil, err
	}

	if err = userRepo.EnsureIndices(ctx); err != nil {
		_ = userRepo.Close(ctx)
		return nil, fmt.Errorf("failed to ensure indices: %w", err)
	}
	app.Logger.Info("User store ready", "type", dbConfig.Type)

	return userRepo, nil
}
