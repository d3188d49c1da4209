package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/shop_dashboard/internal/models"
	"github.com/GTDGit/shop_dashboard/internal/service"
	"github.com/GTDGit/shop_dashboard/internal/utils"
)

// DashboardProvider builds dashboard views for a request.
type DashboardProvider interface {
	Build(ctx context.Context) *service.Dashboard
	Summary(ctx context.Context) *models.MetricsSummary
	LowStock(ctx context.Context) []models.Product
}

// DashboardHandler serves the dashboard endpoints.
type DashboardHandler struct {
	dashboard DashboardProvider
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard DashboardProvider) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetStats returns the nine dashboard cards. It always succeeds; sources that
// cannot be reached fall back to local data.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	utils.Success(c, http.StatusOK, "Dashboard stats retrieved successfully", h.dashboard.Build(c.Request.Context()))
}

// GetSummary returns the backend's raw summary, or null when it is unavailable.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary := h.dashboard.Summary(c.Request.Context())
	if summary == nil {
		utils.Success(c, http.StatusOK, "Dashboard summary unavailable", nil)
		return
	}
	utils.Success(c, http.StatusOK, "Dashboard summary retrieved successfully", summary)
}

// GetLowStock lists the products behind the low stock card.
func (h *DashboardHandler) GetLowStock(c *gin.Context) {
	products := h.dashboard.LowStock(c.Request.Context())
	utils.Success(c, http.StatusOK, "Low stock products retrieved successfully", gin.H{
		"threshold": service.LowStockThreshold,
		"products":  products,
	})
}
