package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/shop_dashboard/internal/utils"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt("user_id"), "request_id": c.GetString("request_id")})
	})
	return r
}

func get(r http.Handler, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMiddleware(t *testing.T) {
	t.Parallel()

	valid, err := utils.GenerateJWT(testSecret, 7, "owner@shop.test", time.Hour)
	require.NoError(t, err)
	expired, err := utils.GenerateJWT(testSecret, 7, "owner@shop.test", -time.Minute)
	require.NoError(t, err)
	foreign, err := utils.GenerateJWT("other-secret", 7, "owner@shop.test", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{name: "valid", header: "Bearer " + valid, status: http.StatusOK},
		{name: "missing", header: "", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "wrong scheme", header: "Basic " + valid, status: http.StatusUnauthorized, code: "INVALID_TOKEN"},
		{name: "expired", header: "Bearer " + expired, status: http.StatusUnauthorized, code: "INVALID_TOKEN"},
		{name: "wrong secret", header: "Bearer " + foreign, status: http.StatusUnauthorized, code: "INVALID_TOKEN"},
	}

	r := newRouter(NewJWTMiddleware(testSecret, nil).Handle())
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := http.Header{}
			if tc.header != "" {
				h.Set("Authorization", tc.header)
			}
			w := get(r, h)
			assert.Equal(t, tc.status, w.Code)
			if tc.code != "" {
				assert.Contains(t, w.Body.String(), `"code":"`+tc.code+`"`)
			} else {
				assert.Contains(t, w.Body.String(), `"user_id":7`)
			}
		})
	}
}

func TestJWTMiddlewareBlocksRepeatedFailures(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := NewInvalidAuthRateLimiter(ctx, 2, time.Minute)
	r := newRouter(NewJWTMiddleware(testSecret, limiter).Handle())

	bad := http.Header{"Authorization": []string{"Bearer nope"}}
	assert.Equal(t, http.StatusUnauthorized, get(r, bad).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, bad).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, bad).Code)

	valid, err := utils.GenerateJWT(testSecret, 1, "", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, get(r, http.Header{"Authorization": []string{"Bearer " + valid}}).Code)
}

func TestRateLimiterWindowExpires(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	rl := NewInvalidAuthRateLimiter(ctx, 1, time.Minute)
	rl.now = func() time.Time { return now }

	rl.Fail("10.0.0.1")
	assert.True(t, rl.Blocked("10.0.0.1"))
	assert.False(t, rl.Blocked("10.0.0.2"))

	now = now.Add(2 * time.Minute)
	assert.False(t, rl.Blocked("10.0.0.1"))

	rl.sweep()
	assert.Empty(t, rl.attempts)
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	r := newRouter(CORSMiddleware([]string{"localhost:3000", "Dashboard.Shop.Test"}))

	w := get(r, http.Header{"Origin": []string{"https://dashboard.shop.test:443"}})
	assert.Equal(t, "https://dashboard.shop.test:443", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(r, http.Header{"Referer": []string{"http://localhost:3000/low-stock"}})
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(r, http.Header{"Origin": []string{"https://evil.test"}})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLoggingMiddlewareRequestID(t *testing.T) {
	t.Parallel()

	r := newRouter(LoggingMiddleware())

	w := get(r, http.Header{"X-Request-Id": []string{"abc123"}})
	assert.Equal(t, "abc123", w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), `"request_id":"abc123"`)

	w = get(r, nil)
	assert.Len(t, w.Header().Get("X-Request-ID"), 8)
}
