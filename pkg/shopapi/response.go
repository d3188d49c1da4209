package shopapi

import (
	"errors"
	"fmt"

	"github.com/GTDGit/shop_dashboard/internal/models"
)

// ErrUnsuccessful is returned when /dashboard answers without success or data.
var ErrUnsuccessful = errors.New("dashboard summary unavailable")

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
}

// DashboardResponse is the /dashboard envelope.
type DashboardResponse struct {
	Success bool                   `json:"success"`
	Data    *models.MetricsSummary `json:"data"`
}
