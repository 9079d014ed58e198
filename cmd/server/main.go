package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nfrund/loginpage/internal/app"
	"github.com/nfrund/loginpage/internal/config"
	"github.com/nfrund/loginpage/internal/logging"
	"github.com/nfrund/loginpage/internal/server"
)

func main() {
	cfg := config.New()
	logging.New(cfg.GetLogFormat(), cfg.GetLogLevel())

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	injector := app.New(ctx, cfg)
	s, err := server.New(cfg, injector)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		_ = app.Shutdown(ctx, injector)
		os.Exit(1)
	}
	s.RegisterRoutes()

	if err := s.Start(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
