package mcp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/movie-recommender/internal/config"
	"github.com/honeycarbs/movie-recommender/pkg/logging"
)

// Server wraps an MCP SDK server with an HTTP listener
type Server struct {
	logger    *logging.Logger
	config    config.Config
	resources *Resources
	tools     []string

	srv     *http.Server
	started atomic.Bool
}

// NewServer constructs a new MCP HTTP server exposing the tools backed by res
func NewServer(log *logging.Logger, cfg config.Config, res *Resources) *Server {
	if log == nil {
		log = logging.NewNop()
	}

	impl := &sdkmcp.Implementation{
		Name:    "movie-recommender",
		Version: "0.1.0",
	}

	mcpServer := sdkmcp.NewServer(impl, nil)
	registered := NewToolRegistry(log).RegisterAll(mcpServer, res)

	handler := sdkmcp.NewStreamableHTTPHandler(func(req *http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp/stream", handler)
	mux.HandleFunc("/healthz", healthz)

	httpSrv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		logger:    log,
		config:    cfg,
		resources: res,
		tools:     registered,
		srv:       httpSrv,
	}
}

// Tools returns the names of the registered tools
func (s *Server) Tools() []string {
	return s.tools
}

// Handler exposes the HTTP routes
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run starts the HTTP server and blocks until shutdown
func (s *Server) Run() error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Info("MCP HTTP server listening", "addr", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown stops the HTTP listener, then releases the store
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutdown requested for MCP HTTP server")

	httpErr := s.srv.Shutdown(ctx)
	if httpErr != nil {
		s.logger.Warn("MCP HTTP server shutdown with error", "err", httpErr)
	}

	resErr := s.resources.Shutdown(ctx)
	if resErr != nil {
		s.logger.Warn("closing movie store failed", "err", resErr)
	}

	if err := errors.Join(httpErr, resErr); err != nil {
		return err
	}

	s.logger.Info("MCP HTTP server shutdown complete")
	return nil
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
