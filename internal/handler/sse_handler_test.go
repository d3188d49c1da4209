package handler

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/shop_dashboard/internal/middleware"
	"github.com/GTDGit/shop_dashboard/internal/sse"
	"github.com/GTDGit/shop_dashboard/internal/utils"
)

func TestSSEStreamRequiresToken(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.GET("/events", NewSSEHandler(sse.NewHub(1), "secret", nil).Stream)

	for _, target := range []string{"/events", "/events?token=garbage"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, target)
	}
}

func TestSSEStreamCountsBadTokens(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r := gin.New()
	r.GET("/events", NewSSEHandler(sse.NewHub(1), "secret", middleware.NewInvalidAuthRateLimiter(ctx, 2, time.Minute)).Stream)

	codes := make([]int, 0, 3)
	for _, target := range []string{"/events", "/events?token=garbage", "/events?token=garbage"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func TestSSEStreamDeliversEvents(t *testing.T) {
	t.Parallel()

	hub := sse.NewHub(4)
	r := gin.New()
	r.GET("/events", NewSSEHandler(hub, "secret", nil).Stream)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	token, err := utils.GenerateJWT("secret", 3, "", time.Minute)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?token="+token, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	readEvent := func() string {
		for lines.Scan() {
			if name, ok := strings.CutPrefix(lines.Text(), "event:"); ok {
				return name
			}
		}
		return ""
	}

	assert.Equal(t, "connected", readEvent())
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(sse.EventSnapshotRefreshed, sse.SnapshotEvent{Products: 3})
	assert.Equal(t, string(sse.EventSnapshotRefreshed), readEvent())
}
