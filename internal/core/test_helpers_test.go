package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, cfg HubConfig) *Hub {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	hub := NewHub(cfg, nil, nil)
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

// joinClient registers a client and discards the history replay it receives.
func joinClient(t *testing.T, hub *Hub, id ClientID, nick string) *Client {
	t.Helper()

	c := NewClient(id, nick)
	require.NoError(t, hub.Join(context.Background(), c))
	mustDelivery(t, c.Outbox)
	return c
}

func mustDelivery(t *testing.T, o *Outbox) Delivery {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if d, ok := o.TryPop(); ok {
			return d
		}
		select {
		case <-o.Ready():
		case <-time.After(10 * time.Millisecond):
		}
	}
	t.Fatalf("expected delivery not received")
	return Delivery{}
}

// settle waits until every event submitted before it has been processed.
func settle(t *testing.T, hub *Hub) Snapshot {
	t.Helper()

	snap, err := hub.Snapshot(context.Background())
	require.NoError(t, err)
	return snap
}

func requireConsistent(t *testing.T, snap Snapshot) {
	t.Helper()

	members := 0
	seen := make(map[ClientID]string)
	for _, room := range snap.Rooms {
		require.LessOrEqual(t, len(room.History), DefaultHistorySize, "room %s history", room.Name)
		for _, m := range room.Members {
			prev, dup := seen[m.ID]
			require.False(t, dup, "client %d in both %s and %s", m.ID, prev, room.Name)
			seen[m.ID] = room.Name
			require.Equal(t, room.Name, m.IndexedRoom, "index for client %d", m.ID)
			members++
		}
	}
	require.Equal(t, members, snap.Indexed, "index size matches membership")
}
