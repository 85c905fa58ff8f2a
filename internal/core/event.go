package core

// EventKind describes what a worker or admin surface asks the hub to do.
type EventKind int

const (
	// EventJoin places a handshaken client into the default room.
	EventJoin EventKind = iota
	// EventText carries a chat line or slash-command from a member.
	EventText
	// EventRawMessage broadcasts a pre-built message, e.g. join announcements.
	EventRawMessage
	// EventKick removes a client and tells its worker to disconnect.
	EventKick
	// EventSnapshot asks for a read-only copy of the hub state.
	EventSnapshot
)

func (k EventKind) String() string {
	switch k {
	case EventJoin:
		return "join"
	case EventText:
		return "text"
	case EventRawMessage:
		return "raw_message"
	case EventKick:
		return "kick"
	case EventSnapshot:
		return "snapshot"
	default:
		return "unknown"
	}
}

// Event is a single unit of work for the hub loop.
type Event struct {
	Kind     EventKind
	Client   *Client  // EventJoin
	ClientID ClientID // EventText, EventKick
	Text     string   // EventText
	Message  Message  // EventRawMessage

	// Optional reply channels, buffered by the sender.
	Result   chan<- error    // EventKick
	Snapshot chan<- Snapshot // EventSnapshot
}

// Snapshot is a point-in-time copy of rooms, members and history.
type Snapshot struct {
	Rooms []RoomSnapshot
	// Indexed counts entries in the client to room index.
	Indexed int
}

// RoomSnapshot describes one room.
type RoomSnapshot struct {
	Name    string
	Members []MemberSnapshot
	History []string
}

// MemberSnapshot describes one member. IndexedRoom is the room the hub's
// index points to for this id, which must equal the enclosing room.
type MemberSnapshot struct {
	ID          ClientID
	SessionID   string
	Nickname    string
	Color       Color
	IndexedRoom string
}

// Room returns the named room from the snapshot.
func (s Snapshot) Room(name string) (RoomSnapshot, bool) {
	for _, r := range s.Rooms {
		if r.Name == name {
			return r, true
		}
	}
	return RoomSnapshot{}, false
}

// Has reports whether the room lists the given id.
func (r RoomSnapshot) Has(id ClientID) bool {
	for _, m := range r.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}
