package core

import (
	"fmt"
	"strings"

	"github.com/gookit/color"
)

// ClearScreen clears the remote terminal and moves the cursor home.
const ClearScreen = "\x1b[2J\x1b[H"

const serverNickname = "[ Server ]"

// Message is a chat line before rendering. Only its rendered form is kept.
type Message struct {
	Room     string
	ID       ClientID
	Nickname string
	Color    Color
	Text     string
}

// ServerMessage builds a message authored by the relay itself.
func ServerMessage(room, text string) Message {
	return Message{
		Room:     room,
		ID:       SystemID,
		Nickname: serverNickname,
		Color:    ColorRed,
		Text:     text,
	}
}

// Render produces the newline-terminated wire line "[<id>] <nickname>: <text>".
// With styled set the id is dimmed and the nickname bold in its colour.
func (m Message) Render(styled bool) string {
	id := fmt.Sprintf("[%d]", m.ID)
	nick := m.Nickname + ":"
	if styled {
		id = paint(color.New(color.OpFuzzy), id)
		nick = paint(m.Color.style(), nick)
	}

	var b strings.Builder
	b.Grow(len(id) + len(nick) + len(m.Text) + 3)
	b.WriteString(id)
	b.WriteByte(' ')
	b.WriteString(nick)
	b.WriteByte(' ')
	b.WriteString(m.Text)
	b.WriteByte('\n')
	return b.String()
}
