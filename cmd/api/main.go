package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskManager/internal/app"
	"taskManager/internal/config"
	"taskManager/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging.Development, cfg.Logging.Level); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error("App: init failed", err)
		return err
	}
	return a.Run(ctx)
}
