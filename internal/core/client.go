package core

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/roomrelay/internal/utils"
)

// ClientID identifies a connected participant for the lifetime of the process.
// Zero is reserved for messages authored by the server itself.
type ClientID uint32

// SystemID is the sender id used for server announcements and replies.
const SystemID ClientID = 0

func (id ClientID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseClientID converts the textual form used by the admin surfaces.
func ParseClientID(s string) (ClientID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse client id %q: %w", s, err)
	}
	return ClientID(v), nil
}

// Client is a chat participant as seen by the core layer.
// Once a client has been handed to the Hub through Join, only the Hub goroutine
// may touch its mutable fields.
type Client struct {
	ID        ClientID
	SessionID string
	Nickname  string
	Color     Color
	Room      string
	Outbox    *Outbox
}

// NewClient constructs a client with an open outbox and the default colour.
func NewClient(id ClientID, nickname string) *Client {
	return &Client{
		ID:        id,
		SessionID: utils.NewID(),
		Nickname:  nickname,
		Color:     DefaultColor,
		Outbox:    NewOutbox(),
	}
}

func (c *Client) send(text string) error {
	return c.Outbox.Push(Delivery{Text: text})
}

func (c *Client) kick() error {
	return c.Outbox.Push(Delivery{Kick: true})
}
