package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdhttp "net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/roomrelay/internal/admin"
	"github.com/vovakirdan/roomrelay/internal/config"
	"github.com/vovakirdan/roomrelay/internal/core"
	applog "github.com/vovakirdan/roomrelay/internal/log"
	"github.com/vovakirdan/roomrelay/internal/store"
	"github.com/vovakirdan/roomrelay/internal/store/sqlite"
	"github.com/vovakirdan/roomrelay/internal/transport/tcp"
	transporthttp "github.com/vovakirdan/roomrelay/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	hub             *core.Hub
	chat            *tcp.Server
	admin           *stdhttp.Server
	console         *admin.Console
	recorder        *store.Recorder
	store           store.AuditStore
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// Options overrides process-level wiring, mainly for tests.
type Options struct {
	ConsoleIn  io.Reader
	ConsoleOut io.Writer
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger, opts Options) (*App, error) {
	a := &App{
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}

	var audit core.AuditSink
	var auditLog transporthttp.AuditLog
	if cfg.AuditDBPath != "" {
		st, err := sqlite.New(cfg.AuditDBPath)
		if err != nil {
			return nil, fmt.Errorf("init audit store: %w", err)
		}
		logger.Info().Str("db_path", cfg.AuditDBPath).Msg("audit store initialized")

		a.store = st
		a.recorder = store.NewRecorder(st, 0, applog.Component(logger, "audit"))
		audit = a.recorder
		auditLog = a.recorder
	}

	a.hub = core.NewHub(core.HubConfig{
		DefaultRoom:     cfg.DefaultRoom,
		HistorySize:     cfg.HistorySize,
		QueueSize:       cfg.EventQueueSize,
		Styled:          cfg.Styling,
		EvictEmptyRooms: cfg.EvictEmptyRooms,
	}, applog.Component(logger, "hub"), audit)

	a.chat = tcp.NewServer(tcp.Config{
		Addr:           cfg.Addr,
		MaxLineBytes:   cfg.MaxLineBytes,
		ReadRetryDelay: cfg.ReadRetryDelay,
	}, a.hub, audit, applog.Component(logger, "tcp"))

	if cfg.AdminAddr != "" {
		a.admin = transporthttp.NewServer(cfg.AdminAddr, a.hub, auditLog, applog.Component(logger, "admin_http"))
	}

	if cfg.Console {
		in, out := opts.ConsoleIn, opts.ConsoleOut
		if in == nil {
			in = os.Stdin
		}
		if out == nil {
			out = os.Stdout
		}
		a.console = admin.NewConsole(in, out, a.hub, applog.Component(logger, "console"))
	}

	return a, nil
}

// Hub exposes the dispatcher.
func (a *App) Hub() *core.Hub {
	return a.hub
}

// Run starts every component and blocks until ctx is cancelled or one of them
// fails. Chat workers drain before the audit log and the store are closed.
func (a *App) Run(ctx context.Context) error {
	defer a.cleanup()

	g, gctx := errgroup.WithContext(ctx)

	// The hub must outlive the workers that submit to it.
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hubDone := make(chan error, 1)
	go func() { hubDone <- a.hub.Run(hubCtx) }()

	auditCtx, stopAudit := context.WithCancel(context.Background())
	defer stopAudit()
	auditDone := make(chan error, 1)
	if a.recorder != nil {
		go func() { auditDone <- a.recorder.Run(auditCtx) }()
	} else {
		auditDone <- nil
	}

	g.Go(func() error {
		return a.chat.ListenAndServe(gctx)
	})

	if a.admin != nil {
		g.Go(func() error {
			a.log.Info().Str("addr", a.admin.Addr).Msg("admin api started")
			if err := a.admin.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
				return fmt.Errorf("admin api: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
			defer cancel()

			a.log.Info().Msg("shutting down admin api")
			return a.admin.Shutdown(shutdownCtx)
		})
	}

	if a.console != nil {
		g.Go(func() error {
			return a.console.Run(gctx)
		})
	}

	err := g.Wait()

	stopHub()
	<-hubDone
	stopAudit()
	<-auditDone

	return err
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
