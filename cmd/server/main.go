package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"placeprep/internal/app"
	"placeprep/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		return fmt.Errorf("invalid HTTP port: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer func() {
		err = errors.Join(err, cleanup())
	}()

	listenErr := make(chan error, 1)
	go func() { listenErr <- srv.Fiber.Listen(addr) }()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down, waiting up to %s", cfg.App.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return srv.Fiber.ShutdownWithContext(shutdownCtx)
}
