package proto

import "time"

// Member is one connected client as seen by operators.
type Member struct {
	ID        uint32 `json:"id"`
	SessionID string `json:"session_id"`
	Nickname  string `json:"nickname"`
	Color     string `json:"color"`
}

// RoomSummary is returned by the room listing.
type RoomSummary struct {
	Name        string   `json:"name"`
	Members     []Member `json:"members"`
	HistorySize int      `json:"history_size"`
}

// RoomDetail adds the replay history to a room summary.
type RoomDetail struct {
	RoomSummary
	History []string `json:"history"`
}

// RoomList wraps the room listing.
type RoomList struct {
	Rooms   []RoomSummary `json:"rooms"`
	Clients int           `json:"clients"`
}

// AuditRecord is one audit log entry.
type AuditRecord struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	ClientID  int64     `json:"client_id"`
	SessionID string    `json:"session_id,omitempty"`
	Nickname  string    `json:"nickname,omitempty"`
	Room      string    `json:"room,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditList wraps audit records.
type AuditList struct {
	Records []AuditRecord `json:"records"`
	Dropped uint64        `json:"dropped"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Error string `json:"error"`
}
