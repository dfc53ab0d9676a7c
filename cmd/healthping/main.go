package main

import (
	"context"
	"log/slog"
	"os"

	"taskmanager/internal/config"
	"taskmanager/internal/healthping"
	"taskmanager/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := util.NewLogger(cfg.LogLevel)

	p := &healthping.Pinger{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.PingTimeout,
		Logger:  logger,
	}
	// A failed ping is logged, not fatal: the job only keeps the API warm.
	if _, err := p.Ping(context.Background()); err != nil {
		logger.Warn("health ping did not complete", slog.String("error", err.Error()))
	}
	logger.Info("random request completed")
}
