// Package server runs the marketplace protocol over TCP: an accept loop
// that spawns one goroutine per connection, each feeding requests to a
// shared protocol.Dispatcher.
//
// Shutdown only stops the accept loop. Connections already being served are
// neither joined nor cancelled; they run until the peer hangs up or an I/O
// error ends them.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"Bazaar/internal/protocol"
	"Bazaar/pkg/kit"
)

const (
	DefaultBufferSize = 4096
	acceptBackoff     = 10 * time.Millisecond
)

type Config struct {
	Addr string

	// BufferSize is the per-connection read buffer; one read is one request.
	BufferSize int

	// MaxConns caps concurrently served connections. Zero means unbounded.
	MaxConns int

	// IdleTimeout closes a connection that sends nothing for this long.
	// Zero disables it.
	IdleTimeout time.Duration

	// Limiter, when set, rate limits new connections per remote host.
	Limiter *kit.IPRateLimiter
}

type Deps struct {
	Log     *zap.Logger
	Metrics *kit.Metrics
}

type Server struct {
	cfg     Config
	d       *protocol.Dispatcher
	log     *zap.Logger
	metrics *kit.Metrics
	slots   chan struct{}
}

func New(cfg Config, d *protocol.Dispatcher, deps Deps) *Server {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		cfg:     cfg,
		d:       d,
		log:     log,
		metrics: deps.Metrics,
	}
	if cfg.MaxConns > 0 {
		s.slots = make(chan struct{}, cfg.MaxConns)
	}
	return s
}

// ListenAndServe binds cfg.Addr and serves until ctx is cancelled. A bind
// failure is returned before any connection is accepted.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is cancelled, then closes ln
// and returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-stop:
		}
	}()

	s.log.Info("protocol server listening",
		zap.String("addr", ln.Addr().String()),
		zap.Int("max_conns", s.cfg.MaxConns),
	)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("protocol server shutting down")
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.log.Warn("accept failed", zap.Error(err))
			time.Sleep(acceptBackoff)
			continue
		}

		if !s.admit(conn) {
			continue
		}
		go s.serveConn(conn)
	}
}

func (s *Server) admit(conn net.Conn) bool {
	if s.cfg.Limiter != nil && !s.cfg.Limiter.AllowAddr(conn.RemoteAddr()) {
		s.reject(conn, "rate_limit")
		return false
	}
	if s.slots == nil {
		return true
	}
	select {
	case s.slots <- struct{}{}:
		return true
	default:
		s.reject(conn, "max_conns")
		return false
	}
}

func (s *Server) reject(conn net.Conn, reason string) {
	s.metrics.ConnRejected(reason)
	s.log.Debug("connection rejected",
		zap.String("remote", conn.RemoteAddr().String()),
		zap.String("reason", reason),
	)
	_ = conn.Close()
}

func (s *Server) release() {
	if s.slots != nil {
		<-s.slots
	}
}
