package mockserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/xwz823/vue3-admin-better/pkg/logging"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Server runs a Handler on a TCP address.
type Server struct {
	addr    string
	handler http.Handler
	log     *slog.Logger

	mu      sync.Mutex
	srv     *http.Server
	ln      net.Listener
	running bool
}

// NewServer returns a server for handler on addr. Use ":0" for a random
// port.
func NewServer(addr string, handler http.Handler, log *slog.Logger) *Server {
	return &Server{addr: addr, handler: handler, log: logging.OrNop(log)}
}

// Start listens and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server is already running")
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.running = true

	s.log.Info("starting mock server", "addr", ln.Addr().String())
	srv := s.srv
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("mock server error", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// URL returns the http:// base address of a started server.
func (s *Server) URL() string {
	return "http://" + s.Addr()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	s.running = false
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("mock server shutdown: %w", err)
	}
	s.log.Info("mock server stopped")
	return nil
}

// Run starts the server and blocks until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Stop()
}
