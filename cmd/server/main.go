package main

import (
	"context"
	"log"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/honeycarbs/movie-recommender/internal/config"
	"github.com/honeycarbs/movie-recommender/internal/mcp"
	"github.com/honeycarbs/movie-recommender/pkg/logging"
	"github.com/honeycarbs/movie-recommender/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	res, cleanup, err := mcp.InitializeResources(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize resources", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	schemaCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = ensureSchema(schemaCtx, res)
	cancel()
	if err != nil {
		logger.Error("failed to ensure graph schema", "err", err)
		cleanup()
		os.Exit(1)
	}

	srv := mcp.NewServer(logger, cfg, res)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		shutdown.Graceful(
			[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
			10*time.Second,
			logger,
			srv,
		)
	}()

	logger.Info("MCP server initialized and starting", "addr", net.JoinHostPort(cfg.Host, cfg.Port), "tools", srv.Tools())

	if err := serve(srv, stopped); err != nil {
		logger.Error("MCP server exited with error", "err", err)
	} else {
		logger.Info("MCP server stopped")
	}
}

type runner interface {
	Run() error
}

// serve runs srv and, after a clean stop, waits until graceful shutdown has
// drained requests and closed the store
func serve(srv runner, stopped <-chan struct{}) error {
	if err := srv.Run(); err != nil {
		return err
	}
	<-stopped
	return nil
}

type schemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

func ensureSchema(ctx context.Context, res *mcp.Resources) error {
	s, ok := res.Store.(schemaEnsurer)
	if !ok {
		return nil
	}
	return s.EnsureSchema(ctx)
}
