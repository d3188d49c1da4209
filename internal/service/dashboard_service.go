package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/GTDGit/shop_dashboard/internal/models"
	"github.com/GTDGit/shop_dashboard/internal/store"
	"github.com/GTDGit/shop_dashboard/internal/utils"
)

// Upstream is the read-only view of the shop backend the dashboard needs.
type Upstream interface {
	GetDashboard(ctx context.Context) (*models.MetricsSummary, error)
	GetBills(ctx context.Context) ([]models.Bill, error)
	GetProducts(ctx context.Context) ([]models.Product, error)
}

// Dashboard is the rendered dashboard for one request.
type Dashboard struct {
	Stats       []Stat    `json:"stats"`
	Metrics     Metrics   `json:"metrics"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// DashboardService assembles dashboards from the backend and the local store.
type DashboardService struct {
	upstream Upstream
	local    store.Reader
	money    utils.CurrencyFormatter
	loc      *time.Location
	now      func() time.Time
}

// NewDashboardService creates a DashboardService. loc decides which calendar
// day counts as today.
func NewDashboardService(upstream Upstream, local store.Reader, money utils.CurrencyFormatter, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{
		upstream: upstream,
		local:    local,
		money:    money,
		loc:      loc,
		now:      time.Now,
	}
}

// Build fetches what the backend offers and derives the dashboard. It never
// fails: any unavailable source degrades to local computation.
func (s *DashboardService) Build(ctx context.Context) *Dashboard {
	src := s.acquire(ctx)
	now := s.now()
	metrics := DeriveMetrics(src, now, s.loc)

	log.Debug().
		Bool("server_summary", src.Summary != nil).
		Int("remote_bills", len(src.RemoteBills)).
		Int("remote_products", len(src.RemoteProducts)).
		Float64("profit", metrics.TotalProfit.Amount).
		Msg("Dashboard metrics derived")

	return &Dashboard{
		Stats:       PresentStats(metrics, s.money),
		Metrics:     metrics,
		GeneratedAt: now.In(s.loc),
	}
}

// Summary returns the backend's precomputed summary, or nil when the backend
// cannot provide one.
func (s *DashboardService) Summary(ctx context.Context) *models.MetricsSummary {
	summary, err := s.upstream.GetDashboard(ctx)
	if err != nil {
		logFetchFailure("/dashboard", err)
		return nil
	}
	return summary
}

// LowStock lists products at or below LowStockThreshold, lowest stock first.
// The backend's product list is used when it answers with a non-empty list,
// matching how the low stock card is counted.
func (s *DashboardService) LowStock(ctx context.Context) []models.Product {
	products, err := s.upstream.GetProducts(ctx)
	if err != nil {
		logFetchFailure("/products", err)
	}
	if err != nil || ctx.Err() != nil || len(products) == 0 {
		products = s.local.Snapshot().Products
	}

	low := make([]models.Product, 0)
	for _, p := range products {
		if p.Stock <= LowStockThreshold {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].Stock < low[j].Stock })
	return low
}

// acquire issues the three backend requests concurrently. Each goroutine owns
// one slot and commits only while ctx is live; failures leave the slot empty.
func (s *DashboardService) acquire(ctx context.Context) Sources {
	var (
		summary  *models.MetricsSummary
		bills    []models.Bill
		products []models.Product
	)

	var g errgroup.Group
	g.Go(func() error {
		res, err := s.upstream.GetDashboard(ctx)
		if err != nil {
			logFetchFailure("/dashboard", err)
			return nil
		}
		if ctx.Err() == nil {
			summary = res
		}
		return nil
	})
	g.Go(func() error {
		res, err := s.upstream.GetBills(ctx)
		if err != nil {
			logFetchFailure("/bills", err)
			return nil
		}
		if ctx.Err() == nil {
			bills = res
		}
		return nil
	})
	g.Go(func() error {
		res, err := s.upstream.GetProducts(ctx)
		if err != nil {
			logFetchFailure("/products", err)
			return nil
		}
		if ctx.Err() == nil {
			products = res
		}
		return nil
	})
	_ = g.Wait()

	return Sources{
		Summary:        summary,
		RemoteBills:    bills,
		RemoteProducts: products,
		Local:          s.local.Snapshot(),
	}
}

func logFetchFailure(endpoint string, err error) {
	if errors.Is(err, context.Canceled) {
		log.Debug().Str("endpoint", endpoint).Msg("Upstream fetch cancelled")
		return
	}
	log.Warn().Err(err).Str("endpoint", endpoint).Msg("Upstream fetch failed, using local data")
}
