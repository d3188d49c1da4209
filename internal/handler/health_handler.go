package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/shop_dashboard/internal/utils"
)

var startTime = time.Now()

// healthCheckTimeout bounds the upstream probe.
const healthCheckTimeout = 3 * time.Second

// Pinger probes the shop backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SnapshotStatus reports the state of the local snapshot.
type SnapshotStatus interface {
	Loaded() bool
	Age() time.Duration
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	upstream Pinger
	snapshot SnapshotStatus
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(upstream Pinger, snapshot SnapshotStatus) *HealthHandler {
	return &HealthHandler{upstream: upstream, snapshot: snapshot}
}

// GetHealth responds with service, backend and snapshot status. The service
// is "degraded" rather than down when a dependency is missing, since the
// dashboard still renders from whatever source remains.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := "healthy"

	upstream := gin.H{"status": "connected"}
	if err := h.upstream.Ping(ctx); err != nil {
		status = "degraded"
		upstream = gin.H{"status": "disconnected", "error": utils.ErrUpstreamNotReached.Error()}
	}

	snapshot := gin.H{"loaded": false}
	if h.snapshot.Loaded() {
		snapshot = gin.H{"loaded": true, "ageSeconds": int(h.snapshot.Age().Seconds())}
	} else {
		status = "degraded"
		snapshot["error"] = utils.ErrSnapshotNotLoaded.Error()
	}

	utils.Success(c, http.StatusOK, "Service is "+status, gin.H{
		"status":   status,
		"uptime":   int(time.Since(startTime).Seconds()),
		"upstream": upstream,
		"snapshot": snapshot,
	})
}
