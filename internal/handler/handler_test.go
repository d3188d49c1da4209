package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/shop_dashboard/internal/models"
	"github.com/GTDGit/shop_dashboard/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDashboard struct {
	summary *models.MetricsSummary
}

func (f fakeDashboard) Build(context.Context) *service.Dashboard {
	return &service.Dashboard{
		Stats: []service.Stat{
			{Key: "totalProducts", Label: "Total Products", Value: "5", Category: "primary", Icon: "package"},
			{Key: "lowStockItems", Label: "Low Stock Items", Value: "2", Category: "warning", Icon: "alert-triangle", Link: service.LowStockPath},
		},
		Metrics: service.Metrics{TotalProducts: service.Value{Amount: 5, Source: service.SourceServer}},
	}
}

func (f fakeDashboard) Summary(context.Context) *models.MetricsSummary { return f.summary }

func (f fakeDashboard) LowStock(context.Context) []models.Product {
	return []models.Product{{Name: "Doohickey", Stock: 5}}
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func serve(t *testing.T, h gin.HandlerFunc) envelope {
	t.Helper()
	r := gin.New()
	r.GET("/", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestGetStats(t *testing.T) {
	t.Parallel()

	env := serve(t, NewDashboardHandler(fakeDashboard{}).GetStats)
	assert.True(t, env.Success)

	var data struct {
		Stats   []service.Stat `json:"stats"`
		Metrics map[string]struct {
			Value  float64 `json:"value"`
			Source string  `json:"source"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Stats, 2)
	assert.Equal(t, "/low-stock", data.Stats[1].Link)
	assert.Equal(t, "server", data.Metrics["totalProducts"].Source)
	assert.Equal(t, 5.0, data.Metrics["totalProducts"].Value)
}

func TestGetSummary(t *testing.T) {
	t.Parallel()

	env := serve(t, NewDashboardHandler(fakeDashboard{summary: &models.MetricsSummary{TotalProducts: models.Num(5)}}).GetSummary)
	assert.JSONEq(t, `5`, string(mustField(t, env.Data, "totalProducts")))
	assert.JSONEq(t, `null`, string(mustField(t, env.Data, "totalStock")))

	env = serve(t, NewDashboardHandler(fakeDashboard{}).GetSummary)
	assert.True(t, env.Success)
	assert.Empty(t, env.Data)
}

func TestGetLowStock(t *testing.T) {
	t.Parallel()

	env := serve(t, NewDashboardHandler(fakeDashboard{}).GetLowStock)
	assert.JSONEq(t, `50`, string(mustField(t, env.Data, "threshold")))
	assert.Contains(t, string(env.Data), "Doohickey")
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeSnapshot struct {
	loaded bool
	age    time.Duration
}

func (f fakeSnapshot) Loaded() bool       { return f.loaded }
func (f fakeSnapshot) Age() time.Duration { return f.age }

func TestGetHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pinger   fakePinger
		snapshot fakeSnapshot
		status   string
		contains []string
	}{
		{
			name:     "healthy",
			snapshot: fakeSnapshot{loaded: true, age: 90 * time.Second},
			status:   "healthy",
			contains: []string{`"ageSeconds":90`, `"connected"`},
		},
		{
			name:     "upstream down",
			pinger:   fakePinger{err: errors.New("dial tcp: refused")},
			snapshot: fakeSnapshot{loaded: true},
			status:   "degraded",
			contains: []string{"UPSTREAM_NOT_REACHED"},
		},
		{
			name:     "snapshot missing",
			status:   "degraded",
			contains: []string{"SNAPSHOT_NOT_LOADED"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			env := serve(t, NewHealthHandler(tc.pinger, tc.snapshot).GetHealth)
			assert.JSONEq(t, `"`+tc.status+`"`, string(mustField(t, env.Data, "status")))
			for _, s := range tc.contains {
				assert.Contains(t, string(env.Data), s)
			}
		})
	}
}

func mustField(t *testing.T, raw json.RawMessage, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	v, ok := m[key]
	require.True(t, ok, "missing field %s", key)
	return v
}
