package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/proto"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// RoomHandlers serves read-only room views built from hub snapshots.
type RoomHandlers struct {
	hub Hub
	log *zerolog.Logger
}

// NewRoomHandlers creates room handlers.
func NewRoomHandlers(hub Hub, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{hub: hub, log: logger}
}

// ListRooms returns every room with its members.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	snap, err := h.hub.Snapshot(c.Request.Context())
	if err != nil {
		h.hubError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshotToList(snap))
}

// GetRoom returns one room including its replay history.
// GET /api/rooms/:name
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	name := c.Param("name")

	snap, err := h.hub.Snapshot(c.Request.Context())
	if err != nil {
		h.hubError(c, err)
		return
	}

	room, ok := snap.Room(name)
	if !ok {
		c.JSON(http.StatusNotFound, proto.Error{Error: "room not found"})
		return
	}
	c.JSON(http.StatusOK, roomToDetail(room))
}

func (h *RoomHandlers) hubError(c *gin.Context, err error) {
	h.log.Warn().Err(err).Msg("hub snapshot failed")
	c.JSON(http.StatusServiceUnavailable, proto.Error{Error: "hub unavailable"})
}

// ClientHandlers serves operator actions on connected clients.
type ClientHandlers struct {
	hub Hub
	log *zerolog.Logger
}

// NewClientHandlers creates client handlers.
func NewClientHandlers(hub Hub, logger *zerolog.Logger) *ClientHandlers {
	return &ClientHandlers{hub: hub, log: logger}
}

// Kick disconnects a client.
// POST /api/clients/:id/kick
func (h *ClientHandlers) Kick(c *gin.Context) {
	raw := c.Param("id")
	id, err := core.ParseClientID(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, proto.Error{Error: raw + " is not a number"})
		return
	}

	err = h.hub.Kick(c.Request.Context(), id)
	switch {
	case err == nil:
		h.log.Info().Stringer("client_id", id).Msg("client kicked via admin api")
		c.Status(http.StatusNoContent)
	case errors.Is(err, core.ErrClientNotFound):
		c.JSON(http.StatusNotFound, proto.Error{Error: "client not found"})
	default:
		h.log.Warn().Err(err).Stringer("client_id", id).Msg("kick failed")
		c.JSON(http.StatusServiceUnavailable, proto.Error{Error: "hub unavailable"})
	}
}

// AuditHandlers serves the audit trail.
type AuditHandlers struct {
	audit AuditLog
	log   *zerolog.Logger
}

// NewAuditHandlers creates audit handlers; audit may be nil.
func NewAuditHandlers(audit AuditLog, logger *zerolog.Logger) *AuditHandlers {
	return &AuditHandlers{audit: audit, log: logger}
}

// ListAudit returns the most recent audit records, oldest first.
// GET /api/audit?limit=N
func (h *AuditHandlers) ListAudit(c *gin.Context) {
	if h.audit == nil {
		c.JSON(http.StatusNotFound, proto.Error{Error: "audit log disabled"})
		return
	}

	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, proto.Error{Error: "invalid limit"})
			return
		}
		limit = min(n, maxAuditLimit)
	}

	entries, err := h.audit.Store().ListAudit(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list audit records")
		c.JSON(http.StatusInternalServerError, proto.Error{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, proto.AuditList{
		Records: lo.Map(entries, auditToProto),
		Dropped: h.audit.Dropped(),
	})
}
