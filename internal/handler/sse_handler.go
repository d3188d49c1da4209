package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/shop_dashboard/internal/middleware"
	"github.com/GTDGit/shop_dashboard/internal/sse"
	"github.com/GTDGit/shop_dashboard/internal/utils"
)

// SSEHandler streams snapshot refresh events to open dashboards.
type SSEHandler struct {
	hub          *sse.Hub
	secret       string
	limiter      *middleware.InvalidAuthRateLimiter
	pingInterval time.Duration
}

// NewSSEHandler creates a new SSEHandler. An empty secret leaves the stream
// open. limiter may be nil; when set it is shared with the JWT middleware so
// bad query tokens count against the same per-IP budget.
func NewSSEHandler(hub *sse.Hub, secret string, limiter *middleware.InvalidAuthRateLimiter) *SSEHandler {
	return &SSEHandler{hub: hub, secret: secret, limiter: limiter, pingInterval: 30 * time.Second}
}

// Stream handles GET /v1/dashboard/events?token=<jwt>.
// EventSource cannot set custom headers, so the JWT is passed as a query parameter.
func (h *SSEHandler) Stream(c *gin.Context) {
	viewer := "anonymous"
	if h.secret != "" {
		ip := c.ClientIP()
		if h.limiter != nil && h.limiter.Blocked(ip) {
			utils.Error(c, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "Too many invalid authentication attempts")
			return
		}
		token := c.Query("token")
		if token == "" {
			h.fail(ip)
			utils.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing token query parameter")
			return
		}
		claims, err := utils.ValidateJWT(h.secret, token)
		if err != nil {
			h.fail(ip)
			log.Debug().Err(err).Str("ip", ip).Msg("Rejected event stream token")
			utils.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}
		viewer = fmt.Sprintf("user-%d", claims.UserID)
	}

	clientID := viewer + "-" + uuid.New().String()[:8]

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	client := h.hub.Register(clientID)
	defer h.hub.Unregister(clientID)

	c.SSEvent("connected", gin.H{
		"clientId":  clientID,
		"timestamp": time.Now().Format(time.RFC3339),
	})
	c.Writer.Flush()

	log.Debug().Str("client_id", clientID).Msg("Dashboard event stream started")

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client.Events:
			if !ok {
				return false
			}
			c.SSEvent(string(msg.Event), string(msg.Data))
			return true
		case <-ping.C:
			c.SSEvent("ping", gin.H{"timestamp": time.Now().Format(time.RFC3339)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *SSEHandler) fail(ip string) {
	if h.limiter != nil {
		h.limiter.Fail(ip)
	}
}
