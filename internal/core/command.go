package core

import (
	"strings"

	"github.com/vovakirdan/roomrelay/internal/store"
)

// interpret runs a slash-command on behalf of client, who is a member of room.
// Replies go to the issuer only.
func (h *Hub) interpret(client *Client, room *Room, line string) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "/nick":
		if len(args) != 2 {
			h.reply(client, "Usage: /nick <nickname>")
			return
		}
		old := client.Nickname
		client.Nickname = args[1]
		h.reply(client, "Set nickname to: "+args[1])
		h.record(store.AuditNick, client, room.Name, old)

	case "/color":
		if len(args) != 2 {
			h.reply(client, "Usage: /color <color>")
			return
		}
		// An unknown name keeps the current colour but still reports the
		// requested one.
		if c, err := ParseColor(args[1]); err == nil {
			client.Color = c
		}
		h.reply(client, "Set color to "+args[1])

	case "/room":
		if len(args) != 2 {
			h.reply(client, "Usage: /room <room>")
			return
		}
		h.switchRoom(client, room, args[1])

	default:
		h.reply(client, "Invalid command")
	}
}

// switchRoom moves client from one room to another without announcing it.
func (h *Hub) switchRoom(client *Client, from *Room, target string) {
	from.RemoveClient(client.ID)

	dest := h.room(target)
	h.clientToRoom[client.ID] = dest.Name
	client.Room = dest.Name

	err := client.send(ClearScreen)
	if err == nil {
		err = client.send(dest.HistoryText())
	}
	dest.AddClient(client)
	if err != nil {
		h.pendingRemoval = append(h.pendingRemoval, pendingRemoval{room: dest.Name, id: client.ID})
	}

	h.log.Debug().Stringer("client_id", client.ID).Str("from", from.Name).Str("room", dest.Name).Msg("client switched room")
	h.record(store.AuditRoomSwitch, client, dest.Name, from.Name)
	if from != dest {
		h.evictIfEmpty(from)
	}
}

func (h *Hub) reply(client *Client, text string) {
	if err := client.send(ServerMessage(client.Room, text).Render(h.cfg.Styled)); err != nil {
		h.pendingRemoval = append(h.pendingRemoval, pendingRemoval{room: client.Room, id: client.ID})
	}
}
