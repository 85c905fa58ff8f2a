package tcp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/core"
)

const (
	defaultMaxLineBytes   = 1024
	defaultReadRetryDelay = 100 * time.Millisecond
)

// Hub is the part of core.Hub a connection worker talks to.
type Hub interface {
	Join(ctx context.Context, c *core.Client) error
	Text(ctx context.Context, id core.ClientID, line string) error
	Announce(ctx context.Context, msg core.Message) error
	DefaultRoom() string
}

// Config tunes the listener and its workers.
type Config struct {
	Addr           string
	MaxLineBytes   int
	ReadRetryDelay time.Duration
}

// Server accepts raw TCP connections and runs one worker per socket.
type Server struct {
	cfg   Config
	hub   Hub
	audit core.AuditSink
	log   *zerolog.Logger

	nextID  atomic.Uint32
	workers sync.WaitGroup
}

// NewServer builds a server; audit may be nil.
func NewServer(cfg Config, hub Hub, audit core.AuditSink, logger *zerolog.Logger) *Server {
	if cfg.MaxLineBytes <= 0 {
		cfg.MaxLineBytes = defaultMaxLineBytes
	}
	if cfg.ReadRetryDelay <= 0 {
		cfg.ReadRetryDelay = defaultReadRetryDelay
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Server{cfg: cfg, hub: hub, audit: audit, log: logger}
}

// ListenAndServe listens on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("tcp: listen %q: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections from listener until ctx is cancelled, then waits
// for every worker to finish.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	defer listener.Close()
	defer s.workers.Wait()

	shutdown := make(chan struct{})
	defer close(shutdown)

	go func() {
		select {
		case <-ctx.Done():
			if err := listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				s.log.Warn().Err(err).Msg("listener close error")
			}
		case <-shutdown:
		}
	}()

	s.log.Info().Str("addr", listener.Addr().String()).Msg("chat listener started")

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("tcp: accept: %w", err)
			}
			s.log.Warn().Err(err).Msg("accept error")
			time.Sleep(s.cfg.ReadRetryDelay)
			continue
		}

		id, ok := s.allocateID()
		if !ok {
			s.log.Error().Msg("client id space exhausted, refusing connection")
			_ = conn.Close()
			continue
		}

		w := newWorker(conn, core.NewClient(id, ""), s.hub, s.cfg, s.audit, s.log)
		s.workers.Add(1)
		go func() {
			defer s.workers.Done()
			w.run(ctx)
		}()
	}
}

// allocateID hands out ids 1..MaxUint32 once each; ids are never reused.
func (s *Server) allocateID() (core.ClientID, bool) {
	for {
		cur := s.nextID.Load()
		if cur == math.MaxUint32 {
			return 0, false
		}
		if s.nextID.CompareAndSwap(cur, cur+1) {
			return core.ClientID(cur + 1), true
		}
	}
}
