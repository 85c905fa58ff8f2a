package core

import (
	"strings"

	"github.com/gammazero/deque"
)

// DefaultHistorySize is how many rendered lines a room remembers.
const DefaultHistorySize = 15

// Room groups clients and keeps a rolling history of rendered lines.
type Room struct {
	Name    string
	members map[ClientID]*Client
	history deque.Deque[string]
	limit   int
}

// NewRoom constructs a room with no clients. A non-positive limit falls back
// to DefaultHistorySize.
func NewRoom(name string, historyLimit int) *Room {
	if historyLimit <= 0 {
		historyLimit = DefaultHistorySize
	}
	return &Room{
		Name:    name,
		members: make(map[ClientID]*Client),
		limit:   historyLimit,
	}
}

// AddClient inserts a client into the room. Returns true if newly added.
func (r *Room) AddClient(c *Client) bool {
	if _, exists := r.members[c.ID]; exists {
		return false
	}
	r.members[c.ID] = c
	return true
}

// RemoveClient deletes a client from the room and returns it.
func (r *Room) RemoveClient(id ClientID) (*Client, bool) {
	c, exists := r.members[id]
	if !exists {
		return nil, false
	}
	delete(r.members, id)
	return c, true
}

// Member looks up a client by id.
func (r *Room) Member(id ClientID) (*Client, bool) {
	c, ok := r.members[id]
	return c, ok
}

// Len returns the number of members.
func (r *Room) Len() int {
	return len(r.members)
}

// Empty returns true if no clients are in the room.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}

// AppendHistory records a rendered line, evicting the oldest past the limit.
func (r *Room) AppendHistory(line string) {
	r.history.PushBack(line)
	for r.history.Len() > r.limit {
		r.history.PopFront()
	}
}

// History returns a copy of the stored lines, oldest first.
func (r *Room) History() []string {
	out := make([]string, r.history.Len())
	for i := range out {
		out[i] = r.history.At(i)
	}
	return out
}

// HistoryText joins the history into one payload for replay.
func (r *Room) HistoryText() string {
	return strings.Join(r.History(), "")
}

// Broadcast sends text to every member except the given id and returns the
// ids whose outbox refused the delivery.
func (r *Room) Broadcast(text string, except ClientID) []ClientID {
	var failed []ClientID
	for id, client := range r.members {
		if id == except {
			continue
		}
		if err := client.send(text); err != nil {
			failed = append(failed, id)
		}
	}
	return failed
}
