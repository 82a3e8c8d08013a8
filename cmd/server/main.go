package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/banerRana/docpipe/internal/api"
	"github.com/banerRana/docpipe/internal/config"
	"github.com/banerRana/docpipe/internal/infrastructure"
	"github.com/banerRana/docpipe/pkg/middleware"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the config file")
	flag.Parse()

	logger := infrastructure.NewLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}

	sys, err := infrastructure.New(cfg)
	if err != nil {
		logger.Error("infrastructure assembly failed", "error", err)
		os.Exit(1)
	}

	if err := run(sys); err != nil {
		sys.Logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(sys *infrastructure.System) error {
	if err := sys.Start(); err != nil {
		return err
	}

	runner := api.NewRunner(sys.Lifecycle, sys.Runtime, sys.Logger)
	handler := api.NewHandler(runner, sys.Runtime.Checkpoints, sys.Lifecycle.Ready, sys.Logger)

	server := &http.Server{
		Addr:    sys.Config.Server.Addr(),
		Handler: middleware.Logger(sys.Logger)(handler.Routes()),
	}

	errCh := make(chan error, 1)
	go func() {
		sys.Logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sys.Logger.Info("shutting down")

	timeout := sys.Config.Server.ShutdownTimeoutDuration()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sys.Logger.Error("server shutdown failed", "error", err)
	}

	return sys.Lifecycle.Shutdown(timeout)
}
