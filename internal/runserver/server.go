// Package runserver exposes backend dispatch on a loopback HTTP endpoint so
// the UI can trigger runs without an in-process command bridge.
package runserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/sharkusmanch/wrapped-runner/internal/domain"
)

const (
	defaultAddress        = "127.0.0.1:39213"
	defaultReadBufferSize = 8192

	notFoundBody = "Not Found"
)

// Server accepts run requests one connection at a time.
type Server struct {
	address    string
	bufSize    int
	dispatcher domain.Dispatcher
	logger     *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	done     chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithAddress sets the listen address.
func WithAddress(addr string) Option {
	return func(s *Server) {
		s.address = addr
	}
}

// WithReadBufferSize sets the size of the single read per connection.
func WithReadBufferSize(n int) Option {
	return func(s *Server) {
		s.bufSize = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server that hands run requests to dispatcher.
func New(dispatcher domain.Dispatcher, opts ...Option) *Server {
	s := &Server{
		address:    defaultAddress,
		bufSize:    defaultReadBufferSize,
		dispatcher: dispatcher,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start binds the listener and serves in a background goroutine until ctx is
// cancelled. A bind failure is not an error: the server stays down and
// ServerUnavailable is returned so the caller can carry on without it. Once
// the accept loop has exited, Start binds afresh.
func (s *Server) Start(ctx context.Context) domain.ServerState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return domain.ServerListening
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.address)
	if err != nil {
		s.logger.Warn("run server unavailable",
			"address", s.address,
			"state", domain.ServerUnavailable,
			"error", err,
		)
		return domain.ServerUnavailable
	}

	s.listener = ln
	s.done = make(chan struct{})

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	go s.acceptLoop(ctx, ln, s.done)

	s.logger.Info("run server listening", "address", ln.Addr().String(), "state", domain.ServerListening)
	return domain.ServerListening
}

// Serve starts the server and blocks until ctx is cancelled and the accept
// loop has exited. It returns ServerUnavailable at once if the bind fails.
func (s *Server) Serve(ctx context.Context) domain.ServerState {
	state := s.Start(ctx)
	if state == domain.ServerListening {
		s.Wait()
	}
	return state
}

// Addr returns the bound address, or nil if the server is not listening.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Wait blocks until the accept loop has exited. It returns immediately if
// the server never started.
func (s *Server) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener, done chan struct{}) {
	defer close(done)
	defer s.release(ln)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				s.logger.Info("run server stopped")
				return
			}
			s.logger.Warn("accept failed", "error", err)
			continue
		}

		// Connections are handled inline: the next accept waits for this run.
		s.handle(ctx, conn)
	}
}

// release forgets ln if it is still the current listener.
func (s *Server) release(ln net.Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == ln {
		s.listener = nil
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	buf := make([]byte, s.bufSize)
	n, err := conn.Read(buf)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			s.logger.Debug("read failed", "remote", conn.RemoteAddr().String(), "error", err)
		}
		return
	}

	method, target, ok := ParseRequestLine(buf[:n])
	if !ok {
		s.logger.Debug("dropping unparseable request", "remote", conn.RemoteAddr().String())
		return
	}

	if !IsRunPath(target) {
		s.logger.Debug("unknown path", "method", method, "target", target)
		s.write(conn, notFoundResponse())
		return
	}

	exportsDir := QueryValue(target, ExportsDirParam)
	s.logger.Info("run requested", "exports_dir", exportsDir)

	text, succeeded := domain.Outcome(s.dispatcher.Dispatch(ctx, exportsDir))
	s.write(conn, runResponse(text, succeeded))
}

func (s *Server) write(conn net.Conn, resp string) {
	if _, err := io.WriteString(conn, resp); err != nil {
		s.logger.Warn("failed to write response", "remote", conn.RemoteAddr().String(), "error", err)
	}
}

// runResponse always uses 200; the body prefix carries the outcome.
func runResponse(text string, succeeded bool) string {
	prefix := "ERROR\n"
	if succeeded {
		prefix = "OK\n"
	}
	body := prefix + text
	return fmt.Sprintf("HTTP/1.1 200 OK\r\nContent-Type: text/plain; charset=utf-8\r\nContent-Length: %d\r\n\r\n%s", len(body), body)
}

func notFoundResponse() string {
	return fmt.Sprintf("HTTP/1.1 404 Not Found\r\nContent-Length: %d\r\n\r\n%s", len(notFoundBody), notFoundBody)
}
