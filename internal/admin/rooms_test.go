package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/roomrelay/internal/proto"
)

var sampleRooms = proto.RoomList{
	Rooms: []proto.RoomSummary{
		{Name: "lobby"},
		{
			Name:        "main",
			Members:     []proto.Member{{ID: 3, Nickname: "carol", Color: "blue"}},
			HistorySize: 4,
		},
	},
	Clients: 1,
}

func TestWriteRoomTable(t *testing.T) {
	var out bytes.Buffer
	WriteRoomTable(&out, sampleRooms)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	require.Contains(t, strings.ToUpper(lines[0]), "NICKNAME")
	require.Contains(t, out.String(), "lobby")
	require.Contains(t, out.String(), "carol")
	require.Equal(t, "2 rooms, 1 clients", lines[len(lines)-1])
}

func TestFetchRooms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/rooms", r.URL.Path)
		_ = json.NewEncoder(w).Encode(sampleRooms)
	}))
	defer srv.Close()

	list, err := FetchRooms(context.Background(), srv.Client(), strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)
	require.Equal(t, sampleRooms, list)
}

func TestFetchRoomsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(proto.Error{Error: "hub unavailable"})
	}))
	defer srv.Close()

	_, err := FetchRooms(context.Background(), srv.Client(), srv.URL)
	require.ErrorContains(t, err, "hub unavailable")
}
