package store

import (
	"context"
	"time"
)

// AuditKind classifies an audit record.
type AuditKind string

const (
	AuditConnect    AuditKind = "connect"
	AuditDisconnect AuditKind = "disconnect"
	AuditJoin       AuditKind = "join"
	AuditNick       AuditKind = "nick"
	AuditRoomSwitch AuditKind = "room_switch"
	AuditKick       AuditKind = "kick"
	AuditRemoved    AuditKind = "removed"
)

// AuditEntry is one operator-facing record of session lifecycle or admin
// activity. Chat state is never rebuilt from these records.
type AuditEntry struct {
	ID        int64
	Kind      AuditKind
	ClientID  int64
	SessionID string
	Nickname  string
	Room      string
	Detail    string
	CreatedAt time.Time
}

// AuditStore handles audit persistence.
type AuditStore interface {
	// AppendAudit persists one entry and sets its ID.
	AppendAudit(ctx context.Context, entry *AuditEntry) error

	// ListAudit returns up to limit most recent entries, oldest first.
	ListAudit(ctx context.Context, limit int) ([]*AuditEntry, error)

	// Close closes the underlying database connection.
	Close() error
}
