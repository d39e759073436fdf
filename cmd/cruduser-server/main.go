package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cruduser/cruduser/internal/config"
	"github.com/cruduser/cruduser/internal/health"
	"github.com/cruduser/cruduser/internal/server"
	"github.com/cruduser/cruduser/internal/users"
)

// AppState holds all application services
type AppState struct {
	Logger        *zap.Logger
	Config        *config.Config
	DB            *bun.DB // nil for the memory store
	UserStore     users.UserStore
	UserService   users.UserService
	HealthManager *health.Manager
}

func main() {
	config.Load()

	logger := initLogger()
	defer logger.Sync() //nolint:errcheck

	as, err := newAppState(logger)
	if err != nil {
		logger.Fatal("Failed to initialize application state", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = as.HealthManager.StartupHealthCheck(ctx)
	cancel()
	if err != nil {
		logger.Fatal("Startup health check failed", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(
		server.RouterConfig{MaxRequestSize: config.Http().MaxRequestSize},
		logger,
		users.NewUserHandlers(as.UserService, logger, config.Http().StrictStatusCodes),
		as.HealthManager,
	)

	addr := config.Http().Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(config.Http().ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.Http().WriteTimeout) * time.Second,
	}

	done := setupSignalHandler(as, srv, logger)

	logger.Info("Starting cruduser server",
		zap.String("address", addr),
		zap.String("store", config.Store().Driver),
		zap.String("password_hash", config.Auth().PasswordHash))

	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	<-done
	logger.Info("Server shutdown complete")
}

// newAppState creates and initializes the application state
func newAppState(logger *zap.Logger) (*AppState, error) {
	hasher, err := users.NewHasher(config.Auth().PasswordHash, config.Auth().BcryptCost)
	if err != nil {
		return nil, err
	}

	as := &AppState{
		Logger:        logger,
		Config:        config.Get(),
		HealthManager: health.NewManager(logger),
	}

	switch driver := config.Store().Driver; driver {
	case config.StoreDriverMemory:
		logger.Warn("Using in-memory user store, data is lost on restart")
		as.UserStore = users.NewInMemoryStore()
	case config.StoreDriverPostgres:
		pgConfig := config.Postgres()
		logger.Info("Database configuration",
			zap.String("host", pgConfig.Host),
			zap.Int("port", pgConfig.Port),
			zap.String("database", pgConfig.Database),
			zap.String("user", pgConfig.User))

		db, err := initializeDatabase(pgConfig.DSN(), pgConfig.MaxOpenConnections, time.Duration(pgConfig.ConnectTimeout)*time.Second)
		if err != nil {
			return nil, err
		}
		as.DB = db
		as.UserStore = users.NewPostgresStore(db)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}

	as.UserService = users.NewUserService(as.UserStore, hasher)
	as.HealthManager.AddChecker(health.NewStoreChecker(as.UserStore))

	return as, nil
}

func initializeDatabase(databaseURL string, maxConnections int, connectTimeout time.Duration) (*bun.DB, error) {
	if maxConnections <= 0 {
		maxConnections = 10
	}
	if connectTimeout <= 0 {
		connectTimeout = time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(databaseURL),
		pgdriver.WithDialTimeout(connectTimeout),
	))
	sqldb.SetMaxOpenConns(maxConnections)
	sqldb.SetMaxIdleConns(maxConnections / 2)
	sqldb.SetConnMaxLifetime(time.Hour)

	db := bun.NewDB(sqldb, pgdialect.New())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := users.CreateTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if err := users.CreateIndexes(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func initLogger() *zap.Logger {
	logConfig := config.Logger()

	var config zap.Config
	if logConfig.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	switch logConfig.Level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func setupSignalHandler(as *AppState, srv *http.Server, logger *zap.Logger) chan struct{} {
	done := make(chan struct{}, 1)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalCh

		logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
		}

		if as.DB != nil {
			if err := as.DB.Close(); err != nil {
				logger.Error("Error closing database", zap.Error(err))
			}
		}

		done <- struct{}{}
	}()

	return done
}
