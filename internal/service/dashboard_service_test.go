package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/GTDGit/shop_dashboard/internal/models"
	"github.com/GTDGit/shop_dashboard/internal/store"
	"github.com/GTDGit/shop_dashboard/internal/utils"
)

type fakeUpstream struct {
	summary     *models.MetricsSummary
	bills       []models.Bill
	products    []models.Product
	summaryErr  error
	billsErr    error
	productsErr error
	block       bool
	calls       atomic.Int32
}

func (f *fakeUpstream) wait(ctx context.Context) error {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (f *fakeUpstream) GetDashboard(ctx context.Context) (*models.MetricsSummary, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.summary, f.summaryErr
}

func (f *fakeUpstream) GetBills(ctx context.Context) ([]models.Bill, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.bills, f.billsErr
}

func (f *fakeUpstream) GetProducts(ctx context.Context) ([]models.Product, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.products, f.productsErr
}

func newTestService(up Upstream, snap models.Snapshot) *DashboardService {
	svc := NewDashboardService(up, store.NewMemoryStore(snap), utils.NewCurrencyFormatter(language.MustParse("en-IN"), "₹"), ist)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func statValue(t *testing.T, d *Dashboard, key string) string {
	t.Helper()
	for _, s := range d.Stats {
		if s.Key == key {
			return s.Value
		}
	}
	t.Fatalf("stat %q not found", key)
	return ""
}

func TestBuildServerSummaryWins(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{summary: &models.MetricsSummary{TotalProducts: models.Num(5)}}
	d := newTestService(up, localSnapshot()).Build(context.Background())

	assert.Equal(t, "5", statValue(t, d, "totalProducts"))
	assert.Equal(t, SourceServer, d.Metrics.TotalProducts.Source)
	assert.Equal(t, "75 units", statValue(t, d, "totalStock"))
	assert.EqualValues(t, 3, up.calls.Load())
	assert.True(t, d.GeneratedAt.Equal(fixedNow))
}

func TestBuildAllFetchesFail(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	up := &fakeUpstream{summaryErr: boom, billsErr: boom, productsErr: boom}
	d := newTestService(up, localSnapshot()).Build(context.Background())

	require.Len(t, d.Stats, 9)
	assert.Equal(t, "3", statValue(t, d, "totalProducts"))
	assert.Equal(t, "2", statValue(t, d, "lowStockItems"))
	assert.Equal(t, "2", statValue(t, d, "todayBills"))
	assert.Equal(t, "₹600", statValue(t, d, "totalRevenue"))
	assert.Equal(t, "₹230", statValue(t, d, "totalProfit"))
	assert.Equal(t, "₹200", statValue(t, d, "normalCustomerRevenue"))
	assert.Equal(t, "₹350", statValue(t, d, "retailerCustomerRevenue"))
}

func TestBuildUsesRemoteCollectionsForProfit(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{
		summaryErr: errors.New("503"),
		bills:      []models.Bill{{Items: []models.BillItem{{ProductName: "Widget", Price: 100, Quantity: 2}}}},
		products:   []models.Product{{Name: "Widget", BuyingPrice: 60, Stock: 500}},
	}
	d := newTestService(up, localSnapshot()).Build(context.Background())

	assert.Equal(t, "₹80", statValue(t, d, "totalProfit"))
	assert.Equal(t, "0", statValue(t, d, "lowStockItems"))
}

func TestBuildCancelledContextDiscardsResults(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{block: true, summary: &models.MetricsSummary{TotalProducts: models.Num(99)}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	d := newTestService(up, localSnapshot()).Build(ctx)
	assert.Equal(t, SourceLocal, d.Metrics.TotalProducts.Source)
	assert.Equal(t, "3", statValue(t, d, "totalProducts"))
}

func TestSummary(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{summary: &models.MetricsSummary{TotalRevenue: models.Num(10)}}
	got := newTestService(up, models.Snapshot{}).Summary(context.Background())
	require.NotNil(t, got)
	assert.Equal(t, 10.0, got.TotalRevenue.Value)

	failing := &fakeUpstream{summaryErr: errors.New("down")}
	assert.Nil(t, newTestService(failing, models.Snapshot{}).Summary(context.Background()))
}

func TestLowStock(t *testing.T) {
	t.Parallel()

	local := newTestService(&fakeUpstream{productsErr: errors.New("down")}, localSnapshot()).LowStock(context.Background())
	require.Len(t, local, 2)
	assert.Equal(t, "Doohickey", local[0].Name)
	assert.Equal(t, "Widget", local[1].Name)

	remote := &fakeUpstream{products: []models.Product{{Name: "A", Stock: 50}, {Name: "B", Stock: 51}, {Name: "C"}}}
	got := newTestService(remote, localSnapshot()).LowStock(context.Background())
	require.Len(t, got, 2)
	assert.Equal(t, "C", got[0].Name)
	assert.Equal(t, "A", got[1].Name)

	assert.NotNil(t, newTestService(&fakeUpstream{}, models.Snapshot{}).LowStock(context.Background()))
}
