package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/proto"
	"github.com/vovakirdan/roomrelay/internal/store"
	"github.com/vovakirdan/roomrelay/internal/store/sqlite"
)

func startHub(t *testing.T) *core.Hub {
	t.Helper()

	hub := core.NewHub(core.HubConfig{}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

func join(t *testing.T, hub *core.Hub, id core.ClientID, nickname string) *core.Client {
	t.Helper()

	c := core.NewClient(id, nickname)
	c.Room = hub.DefaultRoom()
	require.NoError(t, hub.Join(context.Background(), c))
	return c
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	router := NewRouter(startHub(t), nil, nil)

	resp := do(t, router, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "ok", resp.Body.String())
}

func TestListRooms(t *testing.T) {
	hub := startHub(t)
	join(t, hub, 1, "alice")
	join(t, hub, 2, "bob")
	require.NoError(t, hub.Text(context.Background(), 1, "hello"))

	router := NewRouter(hub, nil, nil)
	resp := do(t, router, http.MethodGet, "/api/rooms")
	require.Equal(t, http.StatusOK, resp.Code)

	list := decode[proto.RoomList](t, resp)
	require.Equal(t, 2, list.Clients)
	require.Len(t, list.Rooms, 1)
	require.Equal(t, core.DefaultRoom, list.Rooms[0].Name)
	require.Equal(t, 1, list.Rooms[0].HistorySize)
	require.Len(t, list.Rooms[0].Members, 2)
	require.Equal(t, uint32(1), list.Rooms[0].Members[0].ID)
	require.Equal(t, "alice", list.Rooms[0].Members[0].Nickname)
	require.Equal(t, string(core.DefaultColor), list.Rooms[0].Members[0].Color)
}

func TestGetRoom(t *testing.T) {
	hub := startHub(t)
	join(t, hub, 1, "alice")
	require.NoError(t, hub.Text(context.Background(), 1, "hello"))
	require.NoError(t, hub.Text(context.Background(), 1, "/room lobby"))

	router := NewRouter(hub, nil, nil)

	resp := do(t, router, http.MethodGet, "/api/rooms/main")
	require.Equal(t, http.StatusOK, resp.Code)
	main := decode[proto.RoomDetail](t, resp)
	require.Empty(t, main.Members)
	require.Equal(t, []string{"[1] alice: hello\n"}, main.History)

	resp = do(t, router, http.MethodGet, "/api/rooms/lobby")
	require.Equal(t, http.StatusOK, resp.Code)
	lobby := decode[proto.RoomDetail](t, resp)
	require.Len(t, lobby.Members, 1)
	require.NotNil(t, lobby.History)
	require.Empty(t, lobby.History)

	resp = do(t, router, http.MethodGet, "/api/rooms/nowhere")
	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Equal(t, "room not found", decode[proto.Error](t, resp).Error)
}

func TestKickClient(t *testing.T) {
	hub := startHub(t)
	c := join(t, hub, 7, "mallory")

	router := NewRouter(hub, nil, nil)

	resp := do(t, router, http.MethodPost, "/api/clients/7/kick")
	require.Equal(t, http.StatusNoContent, resp.Code)

	var kicked bool
	for _, d := range c.Outbox.Drain() {
		kicked = kicked || d.Kick
	}
	require.True(t, kicked)

	resp = do(t, router, http.MethodPost, "/api/clients/7/kick")
	require.Equal(t, http.StatusNotFound, resp.Code)

	resp = do(t, router, http.MethodPost, "/api/clients/abc/kick")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, "abc is not a number", decode[proto.Error](t, resp).Error)
}

type auditLog struct {
	store   store.AuditStore
	dropped uint64
}

func (a auditLog) Store() store.AuditStore { return a.store }
func (a auditLog) Dropped() uint64         { return a.dropped }

func TestListAudit(t *testing.T) {
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, kind := range []store.AuditKind{store.AuditConnect, store.AuditJoin, store.AuditKick} {
		require.NoError(t, st.AppendAudit(ctx, &store.AuditEntry{
			Kind:      kind,
			ClientID:  3,
			Nickname:  "carol",
			Room:      "main",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	router := NewRouter(startHub(t), auditLog{store: st, dropped: 4}, nil)

	resp := do(t, router, http.MethodGet, "/api/audit?limit=2")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decode[proto.AuditList](t, resp)
	require.Equal(t, uint64(4), list.Dropped)
	require.Len(t, list.Records, 2)
	require.Equal(t, "join", list.Records[0].Kind)
	require.Equal(t, "kick", list.Records[1].Kind)

	resp = do(t, router, http.MethodGet, "/api/audit")
	require.Len(t, decode[proto.AuditList](t, resp).Records, 3)

	resp = do(t, router, http.MethodGet, "/api/audit?limit=zero")
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListAuditEmpty(t *testing.T) {
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	router := NewRouter(startHub(t), auditLog{store: st}, nil)

	resp := do(t, router, http.MethodGet, "/api/audit")
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"records":[],"dropped":0}`, resp.Body.String())
}

func TestListAuditDisabled(t *testing.T) {
	router := NewRouter(startHub(t), nil, nil)

	resp := do(t, router, http.MethodGet, "/api/audit")
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHubStopped(t *testing.T) {
	hub := core.NewHub(core.HubConfig{}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, hub.Run(ctx))

	router := NewRouter(hub, nil, nil)
	resp := do(t, router, http.MethodGet, "/api/rooms")
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
