package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/store"
)

const readHeaderTimeout = 5 * time.Second

// Hub is the operator-facing part of core.Hub.
type Hub interface {
	Snapshot(ctx context.Context) (core.Snapshot, error)
	Kick(ctx context.Context, id core.ClientID) error
}

// AuditLog gives read access to the audit trail. *store.Recorder implements it.
type AuditLog interface {
	Store() store.AuditStore
	Dropped() uint64
}

// NewServer builds the admin HTTP server. audit may be nil, which disables
// the audit endpoint.
func NewServer(addr string, hub Hub, audit AuditLog, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              addr,
		Handler:           NewRouter(hub, audit, logger),
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// NewRouter registers the admin routes on a fresh gin engine.
func NewRouter(hub Hub, audit AuditLog, logger *zerolog.Logger) *gin.Engine {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	rooms := NewRoomHandlers(hub, logger)
	clients := NewClientHandlers(hub, logger)
	audits := NewAuditHandlers(audit, logger)

	api := router.Group("/api")
	{
		api.GET("/rooms", rooms.ListRooms)
		api.GET("/rooms/:name", rooms.GetRoom)
		api.POST("/clients/:id/kick", clients.Kick)
		api.GET("/audit", audits.ListAudit)
	}

	return router
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
