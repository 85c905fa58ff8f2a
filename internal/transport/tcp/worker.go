package tcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/store"
)

const (
	welcomePrompt = "Welcome to the chat! Please log in\n\nNickname: "
	kickNotice    = "Kicked by an admin."
)

var errKicked = errors.New("kicked by admin")

// worker owns one socket: it reads lines into hub events and writes the
// client's outbox back to the socket.
type worker struct {
	conn   net.Conn
	client *core.Client
	hub    Hub
	cfg    Config
	audit  core.AuditSink
	log    zerolog.Logger

	lines   chan string
	readErr chan error
}

func newWorker(conn net.Conn, client *core.Client, hub Hub, cfg Config, audit core.AuditSink, logger *zerolog.Logger) *worker {
	return &worker{
		conn:   conn,
		client: client,
		hub:    hub,
		cfg:    cfg,
		audit:  audit,
		log: logger.With().
			Stringer("client_id", client.ID).
			Str("session_id", client.SessionID).
			Str("remote_addr", conn.RemoteAddr().String()).
			Logger(),
		lines:   make(chan string),
		readErr: make(chan error, 1),
	}
}

func (w *worker) run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	w.log.Info().Msg("connection accepted")
	w.record(store.AuditConnect, "", w.conn.RemoteAddr().String())

	go w.readLoop(ctx)

	err := w.handshake(ctx)
	if err == nil {
		err = w.session(ctx)
	}

	w.client.Outbox.Close()
	_ = w.conn.Close()

	switch {
	case err == nil, errors.Is(err, context.Canceled):
		w.log.Info().Msg("connection closed by server")
	case errors.Is(err, errKicked):
		w.log.Info().Msg("connection closed after kick")
	case errors.Is(err, io.EOF):
		w.log.Info().Msg("connection closed by peer")
	default:
		w.log.Warn().Err(err).Msg("connection closed with error")
	}
	// The nickname is owned by the hub after Join, so only the id is recorded here.
	w.record(store.AuditDisconnect, "", errString(err))
}

// readLoop feeds sanitised lines to the worker until a hard read error.
func (w *worker) readLoop(ctx context.Context) {
	reader := newLineReader(w.conn, w.cfg.MaxLineBytes)
	for {
		line, err := reader.ReadLine()
		if err != nil {
			// Timeouts only reach here when the conn carries a read deadline;
			// the partial line is kept by the reader.
			if isTransient(err) {
				select {
				case <-time.After(w.cfg.ReadRetryDelay):
					continue
				case <-ctx.Done():
					return
				}
			}
			w.readErr <- err
			return
		}

		select {
		case w.lines <- line:
		case <-ctx.Done():
			return
		}
	}
}

// handshake waits for the first non-empty line and uses it as the nickname.
func (w *worker) handshake(ctx context.Context) error {
	if err := w.write(core.ClearScreen + welcomePrompt); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}

	var nickname string
	for nickname == "" {
		select {
		case line := <-w.lines:
			nickname = line
		case err := <-w.readErr:
			return fmt.Errorf("handshake read: %w", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	w.client.Nickname = nickname

	if err := w.write(core.ClearScreen); err != nil {
		return fmt.Errorf("clear screen: %w", err)
	}

	room := w.hub.DefaultRoom()
	w.client.Room = room
	if err := w.hub.Announce(ctx, core.ServerMessage(room, nickname+" joined")); err != nil {
		return fmt.Errorf("announce join: %w", err)
	}
	if err := w.hub.Join(ctx, w.client); err != nil {
		return fmt.Errorf("join: %w", err)
	}

	w.log.Debug().Str("nickname", nickname).Msg("handshake complete")
	return nil
}

// session relays outbox deliveries to the socket and socket lines to the hub.
func (w *worker) session(ctx context.Context) error {
	id := w.client.ID
	outbox := w.client.Outbox

	for {
		select {
		case <-outbox.Ready():
			for _, d := range outbox.Drain() {
				if d.Kick {
					_ = w.write(core.ClearScreen + kickNotice)
					return errKicked
				}
				if err := w.write(d.Text); err != nil {
					return fmt.Errorf("write delivery: %w", err)
				}
			}
		case line := <-w.lines:
			if line == "" {
				continue
			}
			if err := w.hub.Text(ctx, id, line); err != nil {
				return fmt.Errorf("forward line: %w", err)
			}
		case err := <-w.readErr:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *worker) write(s string) error {
	if s == "" {
		return nil
	}
	_, err := io.WriteString(w.conn, s)
	return err
}

func (w *worker) record(kind store.AuditKind, nickname, detail string) {
	if w.audit == nil {
		return
	}
	w.audit.Record(store.AuditEntry{
		Kind:      kind,
		ClientID:  int64(w.client.ID),
		SessionID: w.client.SessionID,
		Nickname:  nickname,
		Detail:    detail,
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
