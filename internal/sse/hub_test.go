package sse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/shop_dashboard/internal/models"
)

func TestHubBroadcast(t *testing.T) {
	t.Parallel()

	hub := NewHub(1)
	a := hub.Register("a")
	b := hub.Register("b")
	assert.Equal(t, 2, hub.ClientCount())

	hub.Broadcast(EventSnapshotRefreshed, map[string]int{"n": 1})
	// b's buffer is full now; the second event is dropped for both.
	hub.Broadcast(EventSnapshotRefreshed, map[string]int{"n": 2})

	for _, c := range []*Client{a, b} {
		msg := <-c.Events
		assert.Equal(t, EventSnapshotRefreshed, msg.Event)
		assert.JSONEq(t, `{"n":1}`, string(msg.Data))
		assert.Empty(t, c.Events)
	}

	hub.Unregister("a")
	_, open := <-a.Events
	assert.False(t, open)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister("missing")
}

func TestHubNotifier(t *testing.T) {
	t.Parallel()

	hub := NewHub(0)
	n := NewHubNotifier(hub)

	// No listeners: nothing to do.
	n.NotifySnapshotRefreshed(models.Snapshot{})

	c := hub.Register("viewer")
	loaded := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	n.NotifySnapshotRefreshed(models.Snapshot{
		Products: make([]models.Product, 3),
		Bills:    make([]models.Bill, 2),
		LoadedAt: loaded,
	})

	msg := <-c.Events
	var ev SnapshotEvent
	require.NoError(t, json.Unmarshal(msg.Data, &ev))
	assert.Equal(t, 3, ev.Products)
	assert.Equal(t, 2, ev.Bills)
	assert.Zero(t, ev.Customers)
	assert.True(t, loaded.Equal(ev.LoadedAt))
}
