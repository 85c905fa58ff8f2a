package core

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/roomrelay/internal/store"
)

const (
	// DefaultRoom is where clients land after the handshake.
	DefaultRoom = "main"

	defaultQueueSize = 256
)

// AuditSink receives lifecycle records. Implementations must not block.
type AuditSink interface {
	Record(entry store.AuditEntry)
}

// HubConfig tunes the hub.
type HubConfig struct {
	DefaultRoom     string
	HistorySize     int
	QueueSize       int
	Styled          bool
	EvictEmptyRooms bool
}

type pendingRemoval struct {
	room string
	id   ClientID
}

// Hub is the single owner of all chat state. Everything below is touched only
// by the goroutine running Run.
type Hub struct {
	cfg    HubConfig
	events chan Event
	done   chan struct{}
	audit  AuditSink
	log    *zerolog.Logger

	rooms          map[string]*Room
	clientToRoom   map[ClientID]string
	pendingRemoval []pendingRemoval
}

// NewHub creates a hub with its default room already present.
// logger and audit may be nil.
func NewHub(cfg HubConfig, logger *zerolog.Logger, audit AuditSink) *Hub {
	if cfg.DefaultRoom == "" {
		cfg.DefaultRoom = DefaultRoom
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultHistorySize
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	h := &Hub{
		cfg:          cfg,
		events:       make(chan Event, cfg.QueueSize),
		done:         make(chan struct{}),
		audit:        audit,
		log:          logger,
		rooms:        make(map[string]*Room),
		clientToRoom: make(map[ClientID]string),
	}
	h.room(cfg.DefaultRoom)
	return h
}

// DefaultRoom returns the room new clients join.
func (h *Hub) DefaultRoom() string {
	return h.cfg.DefaultRoom
}

// Run processes events one at a time until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	h.log.Info().Str("default_room", h.cfg.DefaultRoom).Int("history_size", h.cfg.HistorySize).Msg("hub started")
	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("hub stopped")
			return nil
		case ev := <-h.events:
			h.dispatch(ev)
			h.drainPendingRemoval()
		}
	}
}

// Submit enqueues an event, blocking until it is accepted or ctx ends.
func (h *Hub) Submit(ctx context.Context, ev Event) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}

	select {
	case h.events <- ev:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Join hands a handshaken client over to the hub.
func (h *Hub) Join(ctx context.Context, c *Client) error {
	return h.Submit(ctx, Event{Kind: EventJoin, Client: c})
}

// Text forwards a line typed by a member.
func (h *Hub) Text(ctx context.Context, id ClientID, line string) error {
	return h.Submit(ctx, Event{Kind: EventText, ClientID: id, Text: line})
}

// Announce broadcasts a pre-built message to its room.
func (h *Hub) Announce(ctx context.Context, msg Message) error {
	return h.Submit(ctx, Event{Kind: EventRawMessage, Message: msg})
}

// Kick disconnects a client and waits for the outcome. It returns
// ErrClientNotFound when the id is not in any room.
func (h *Hub) Kick(ctx context.Context, id ClientID) error {
	result := make(chan error, 1)
	if err := h.Submit(ctx, Event{Kind: EventKick, ClientID: id, Result: result}); err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns a consistent copy of the hub state.
func (h *Hub) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := h.Submit(ctx, Event{Kind: EventSnapshot, Snapshot: reply}); err != nil {
		return Snapshot{}, err
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-h.done:
		return Snapshot{}, ErrHubStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (h *Hub) dispatch(ev Event) {
	switch ev.Kind {
	case EventJoin:
		h.handleJoin(ev.Client)
	case EventText:
		h.handleText(ev.ClientID, ev.Text)
	case EventRawMessage:
		h.handleRawMessage(ev.Message)
	case EventKick:
		err := h.handleKick(ev.ClientID)
		if ev.Result != nil {
			ev.Result <- err
		}
	case EventSnapshot:
		if ev.Snapshot != nil {
			ev.Snapshot <- h.snapshot()
		}
	default:
		h.log.Warn().Int("kind", int(ev.Kind)).Msg("unknown hub event")
	}
}

func (h *Hub) handleJoin(c *Client) {
	if c == nil {
		return
	}
	if current, ok := h.clientToRoom[c.ID]; ok {
		h.log.Warn().Stringer("client_id", c.ID).Str("room", current).Msg("join for client already in a room")
		return
	}

	room := h.room(h.cfg.DefaultRoom)
	c.Room = room.Name

	if err := c.send(room.HistoryText()); err != nil {
		h.log.Debug().Err(err).Stringer("client_id", c.ID).Msg("client gone before join")
		return
	}
	room.AddClient(c)
	h.clientToRoom[c.ID] = room.Name

	h.log.Info().Stringer("client_id", c.ID).Str("session_id", c.SessionID).Str("nickname", c.Nickname).Str("room", room.Name).Msg("client joined")
	h.record(store.AuditJoin, c, room.Name, "")
}

func (h *Hub) handleText(id ClientID, line string) {
	room, client, ok := h.lookup(id)
	if !ok {
		h.log.Debug().Stringer("client_id", id).Msg("text from client without room")
		return
	}

	if strings.HasPrefix(line, "/") {
		h.interpret(client, room, line)
		return
	}

	msg := Message{
		Room:     room.Name,
		ID:       id,
		Nickname: client.Nickname,
		Color:    client.Color,
		Text:     line,
	}
	rendered := msg.Render(h.cfg.Styled)

	room.AppendHistory(rendered)
	h.broadcast(room, rendered, id)
}

func (h *Hub) handleRawMessage(msg Message) {
	room, ok := h.rooms[msg.Room]
	if !ok {
		h.log.Debug().Str("room", msg.Room).Msg("raw message for unknown room")
		return
	}
	h.broadcast(room, msg.Render(h.cfg.Styled), msg.ID)
}

func (h *Hub) handleKick(id ClientID) error {
	room, client, ok := h.lookup(id)
	if !ok {
		h.log.Info().Stringer("client_id", id).Msg("kick for unknown client")
		return fmt.Errorf("kick %s: %w", id, ErrClientNotFound)
	}

	room.RemoveClient(id)
	delete(h.clientToRoom, id)
	if err := client.kick(); err != nil {
		h.log.Debug().Err(err).Stringer("client_id", id).Msg("kicked client already disconnected")
	}

	h.log.Info().Stringer("client_id", id).Str("nickname", client.Nickname).Str("room", room.Name).Msg("client kicked")
	h.record(store.AuditKick, client, room.Name, "")
	h.evictIfEmpty(room)
	return nil
}

func (h *Hub) broadcast(room *Room, text string, except ClientID) {
	for _, id := range room.Broadcast(text, except) {
		h.pendingRemoval = append(h.pendingRemoval, pendingRemoval{room: room.Name, id: id})
	}
}

// drainPendingRemoval drops members whose outbox refused a delivery during the
// event just processed.
func (h *Hub) drainPendingRemoval() {
	for len(h.pendingRemoval) > 0 {
		last := len(h.pendingRemoval) - 1
		p := h.pendingRemoval[last]
		h.pendingRemoval = h.pendingRemoval[:last]

		room, ok := h.rooms[p.room]
		if !ok {
			continue
		}
		client, removed := room.RemoveClient(p.id)
		if !removed {
			continue
		}
		if h.clientToRoom[p.id] == p.room {
			delete(h.clientToRoom, p.id)
		}

		h.log.Info().Stringer("client_id", p.id).Str("room", p.room).Msg("removed disconnected client")
		h.record(store.AuditRemoved, client, p.room, "delivery failed")
		h.evictIfEmpty(room)
	}
}

func (h *Hub) lookup(id ClientID) (*Room, *Client, bool) {
	name, ok := h.clientToRoom[id]
	if !ok {
		return nil, nil, false
	}
	room, ok := h.rooms[name]
	if !ok {
		return nil, nil, false
	}
	client, ok := room.Member(id)
	if !ok {
		return nil, nil, false
	}
	return room, client, true
}

// room returns the named room, creating it on first reference.
func (h *Hub) room(name string) *Room {
	if r, ok := h.rooms[name]; ok {
		return r
	}
	r := NewRoom(name, h.cfg.HistorySize)
	h.rooms[name] = r
	h.log.Debug().Str("room", name).Msg("room created")
	return r
}

func (h *Hub) evictIfEmpty(room *Room) {
	if !h.cfg.EvictEmptyRooms || room.Name == h.cfg.DefaultRoom || !room.Empty() {
		return
	}
	delete(h.rooms, room.Name)
	h.log.Debug().Str("room", room.Name).Msg("empty room evicted")
}

func (h *Hub) snapshot() Snapshot {
	names := lo.Keys(h.rooms)
	slices.Sort(names)

	snap := Snapshot{
		Rooms:   make([]RoomSnapshot, 0, len(names)),
		Indexed: len(h.clientToRoom),
	}
	for _, name := range names {
		room := h.rooms[name]
		ids := lo.Keys(room.members)
		slices.Sort(ids)

		snap.Rooms = append(snap.Rooms, RoomSnapshot{
			Name: name,
			Members: lo.Map(ids, func(id ClientID, _ int) MemberSnapshot {
				c := room.members[id]
				return MemberSnapshot{
					ID:          id,
					SessionID:   c.SessionID,
					Nickname:    c.Nickname,
					Color:       c.Color,
					IndexedRoom: h.clientToRoom[id],
				}
			}),
			History: room.History(),
		})
	}
	return snap
}

func (h *Hub) record(kind store.AuditKind, c *Client, room, detail string) {
	if h.audit == nil {
		return
	}
	h.audit.Record(store.AuditEntry{
		Kind:      kind,
		ClientID:  int64(c.ID),
		SessionID: c.SessionID,
		Nickname:  c.Nickname,
		Room:      room,
		Detail:    detail,
	})
}
