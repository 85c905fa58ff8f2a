package admin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/roomrelay/internal/core"
)

type fakeKicker struct {
	known  map[core.ClientID]bool
	kicked []core.ClientID
	err    error
}

func (f *fakeKicker) Kick(_ context.Context, id core.ClientID) error {
	if f.err != nil {
		return f.err
	}
	if !f.known[id] {
		return fmt.Errorf("kick %d: %w", id, core.ErrClientNotFound)
	}
	f.kicked = append(f.kicked, id)
	return nil
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		output string
		kicked []core.ClientID
	}{
		{name: "blank", line: "   ", output: ""},
		{name: "kick", line: "kick 3", output: "", kicked: []core.ClientID{3}},
		{name: "extra spaces", line: "  kick   3  ", output: "", kicked: []core.ClientID{3}},
		{name: "missing id", line: "kick", output: "Usage: kick <id>\n"},
		{name: "too many args", line: "kick 3 4", output: "Usage: kick <id>\n"},
		{name: "not a number", line: "kick bob", output: "<id> is not a number\n"},
		{name: "negative", line: "kick -1", output: "<id> is not a number\n"},
		{name: "unknown id", line: "kick 9", output: "Client 9 not found\n"},
		{name: "unknown command", line: "ban 3", output: "Invalid command\n"},
		{name: "list is not a console command", line: "list", output: "Invalid command\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			hub := &fakeKicker{known: map[core.ClientID]bool{3: true}}
			console := NewConsole(strings.NewReader(""), &out, hub, nil)

			require.NoError(t, console.Execute(context.Background(), tt.line))
			require.Equal(t, tt.output, out.String())
			require.Equal(t, tt.kicked, hub.kicked)
		})
	}
}

func TestExecuteHubStopped(t *testing.T) {
	console := NewConsole(strings.NewReader(""), io.Discard, &fakeKicker{err: core.ErrHubStopped}, nil)

	err := console.Execute(context.Background(), "kick 1")
	require.ErrorIs(t, err, core.ErrHubStopped)
}

func TestRunUntilInputCloses(t *testing.T) {
	var out bytes.Buffer
	hub := &fakeKicker{known: map[core.ClientID]bool{1: true, 2: true}}
	in := strings.NewReader("kick 1\nhello\nkick\nkick 2\n")

	require.NoError(t, NewConsole(in, &out, hub, nil).Run(context.Background()))
	require.Equal(t, "Invalid command\nUsage: kick <id>\n", out.String())
	require.Equal(t, []core.ClientID{1, 2}, hub.kicked)
}

func TestRunStopsOnCancel(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewConsole(in, io.Discard, &fakeKicker{}, nil).Run(ctx) }()

	cancel()
	require.NoError(t, <-done)
}

func TestRunWithRealHub(t *testing.T) {
	hub := core.NewHub(core.HubConfig{}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.Run(ctx) }()

	client := core.NewClient(5, "eve")
	client.Room = hub.DefaultRoom()
	require.NoError(t, hub.Join(ctx, client))

	var out bytes.Buffer
	in := strings.NewReader("kick 5\nkick 5\n")
	require.NoError(t, NewConsole(in, &out, hub, nil).Run(ctx))
	require.Equal(t, "Client 5 not found\n", out.String())

	var kicked bool
	for _, d := range client.Outbox.Drain() {
		kicked = kicked || d.Kick
	}
	require.True(t, kicked)
}

