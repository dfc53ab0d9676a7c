package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"taskmanager/internal/config"
	"taskmanager/internal/server"
	"taskmanager/internal/service"
	"taskmanager/internal/storage"
	"taskmanager/internal/storage/gormstore"
	"taskmanager/internal/storage/memory"
	"taskmanager/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("task management API starting",
		slog.String("storage", cfg.Storage),
		slog.String("frontend_url", cfg.FrontendURL))

	repo, closer, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("unable to open task store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := server.New(service.New(repo, logger), logger, server.Options{
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: []string{cfg.FrontendURL},
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr),
			slog.String("health", "http://localhost"+httpServer.Addr+"/api/health"))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				logger.Info("shutting down server")
				shutdownErr := httpServer.Shutdown(ctx)
				return errors.Join(shutdownErr, closer.Close())
			},
		},
	)

	exitCode := <-wait
	logger.Info("server stopped", slog.Int("exit_code", exitCode))
	os.Exit(exitCode)
}

func openStore(cfg config.Config, logger *slog.Logger) (storage.TaskRepository, io.Closer, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage; tasks are lost on restart")
		return memory.New(), io.NopCloser(nil), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store, err := gormstore.Open(ctx, gormstore.Options{
		Driver: cfg.DBDriver,
		Path:   cfg.DBPath,
		DSN:    cfg.DBDSN,
		Debug:  cfg.DBDebug,
		Logger: logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return store, store, nil
}
