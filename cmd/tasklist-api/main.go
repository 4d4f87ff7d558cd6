package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/jackc/pgx/v5/stdlib"

	"tasklist/internal/config"
	"tasklist/internal/httpapi"
	"tasklist/internal/observability/logging"
	"tasklist/internal/store/memorystore"
	"tasklist/internal/store/mongostore"
	"tasklist/internal/store/postgres"
	"tasklist/internal/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", "err", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openStore(rootCtx, cfg, logger)
	if err != nil {
		logger.Fatal("open store", "driver", cfg.StoreDriver, "err", err)
	}
	defer closeRepo()

	service := task.NewService(repo)
	handler := httpapi.NewServer(service, httpapi.Options{
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
		CORSOrigins:    cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infof("Server is running on port %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", "err", err)
		}
	}()

	<-rootCtx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	logger.Info("bye")
}

// openStore builds the repository for the configured driver. The returned
// func releases its connections.
func openStore(ctx context.Context, cfg config.Config, logger *log.Logger) (task.TaskRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		store, err := mongostore.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Connected to database!", "driver", cfg.StoreDriver, "database", cfg.MongoDatabase)
		return store, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.Close(closeCtx); err != nil {
				logger.Error("mongo disconnect", "err", err)
			}
		}, nil

	case config.DriverPostgres:
		db, err := sql.Open("pgx", cfg.DBURL)
		if err != nil {
			return nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			db.Close()
			return nil, nil, err
		}
		repo := postgres.NewTaskRepo(db)
		if err := repo.EnsureSchema(pingCtx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("Connected to database!", "driver", cfg.StoreDriver)
		return repo, func() { _ = db.Close() }, nil

	default:
		logger.Warn("using in-memory store; tasks are lost on restart")
		return memorystore.NewTaskStore(), func() {}, nil
	}
}
