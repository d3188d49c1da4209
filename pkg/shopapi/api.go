package shopapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/shop_dashboard/internal/models"
)

// GetDashboard fetches the precomputed metrics summary. A response without
// success or without data yields ErrUnsuccessful.
func (c *Client) GetDashboard(ctx context.Context) (*models.MetricsSummary, error) {
	body, err := c.doGet(ctx, "/dashboard")
	if err != nil {
		return nil, err
	}

	var resp DashboardResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode dashboard response: %w", err)
	}
	if !resp.Success || resp.Data == nil {
		return nil, ErrUnsuccessful
	}
	return resp.Data, nil
}

// GetBills fetches the raw bill collection. A body that is not a JSON array
// yields an empty collection.
func (c *Client) GetBills(ctx context.Context) ([]models.Bill, error) {
	body, err := c.doGet(ctx, "/bills")
	if err != nil {
		return nil, err
	}
	return decodeCollection[models.Bill](body, "/bills"), nil
}

// GetProducts fetches the raw product collection. A body that is not a JSON
// array yields an empty collection.
func (c *Client) GetProducts(ctx context.Context) ([]models.Product, error) {
	body, err := c.doGet(ctx, "/products")
	if err != nil {
		return nil, err
	}
	return decodeCollection[models.Product](body, "/products"), nil
}

func decodeCollection[T any](body []byte, endpoint string) []T {
	items, dropped, isArray := models.DecodeList[T](body)
	if !isArray {
		log.Debug().Str("endpoint", endpoint).Msg("[SHOPAPI] Non-array body treated as empty collection")
	}
	if dropped > 0 {
		log.Warn().Str("endpoint", endpoint).Int("dropped", dropped).Msg("[SHOPAPI] Dropped malformed elements")
	}
	return items
}

// Ping reports whether the backend answers /dashboard with a 2xx status.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doGet(ctx, "/dashboard")
	return err
}
