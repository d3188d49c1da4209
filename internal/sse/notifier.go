package sse

import (
	"time"

	"github.com/GTDGit/shop_dashboard/internal/models"
)

// SnapshotEvent tells viewers that local data changed and the cards should be
// fetched again.
type SnapshotEvent struct {
	Products  int       `json:"products"`
	Bills     int       `json:"bills"`
	Customers int       `json:"customers"`
	LoadedAt  time.Time `json:"loadedAt"`
}

// HubNotifier forwards snapshot refreshes to the hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// NotifySnapshotRefreshed broadcasts a summary of snap when anyone is listening.
func (n *HubNotifier) NotifySnapshotRefreshed(snap models.Snapshot) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(EventSnapshotRefreshed, SnapshotEvent{
		Products:  len(snap.Products),
		Bills:     len(snap.Bills),
		Customers: len(snap.Customers),
		LoadedAt:  snap.LoadedAt,
	})
}
