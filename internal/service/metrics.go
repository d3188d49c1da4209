package service

import (
	"time"

	"github.com/GTDGit/shop_dashboard/internal/models"
)

// LowStockThreshold is the stock level at or below which a product counts as low stock.
const LowStockThreshold = 50

// dayLayout is the calendar-day key used to decide whether a bill was issued today.
const dayLayout = "2006-01-02"

// Source tells where a metric value came from.
type Source string

const (
	SourceServer Source = "server"
	SourceLocal  Source = "local"
)

// Value is a single metric together with its origin.
type Value struct {
	Amount float64 `json:"value"`
	Source Source  `json:"source"`
}

// Metrics are the nine dashboard figures.
type Metrics struct {
	TotalProducts           Value `json:"totalProducts"`
	TotalStock              Value `json:"totalStock"`
	LowStockItems           Value `json:"lowStockItems"`
	TotalCustomers          Value `json:"totalCustomers"`
	TodayBills              Value `json:"todayBills"`
	TotalRevenue            Value `json:"totalRevenue"`
	TotalProfit             Value `json:"totalProfit"`
	NormalCustomerRevenue   Value `json:"normalCustomerRevenue"`
	RetailerCustomerRevenue Value `json:"retailerCustomerRevenue"`
}

// Sources bundles everything the derivation may read. Summary is nil when the
// backend did not answer; remote collections are empty in the same case.
type Sources struct {
	Summary        *models.MetricsSummary
	RemoteBills    []models.Bill
	RemoteProducts []models.Product
	Local          models.Snapshot
}

// DeriveMetrics computes the dashboard figures. Server values win whenever
// present; otherwise each figure is computed from the local snapshot. Profit
// is always computed locally. The function does not modify src.
func DeriveMetrics(src Sources, now time.Time, loc *time.Location) Metrics {
	var summary models.MetricsSummary
	if src.Summary != nil {
		summary = *src.Summary
	}
	local := src.Local

	lowStockProducts := local.Products
	if len(src.RemoteProducts) > 0 {
		lowStockProducts = src.RemoteProducts
	}

	profitProducts := local.Products
	if len(src.RemoteProducts) > 0 {
		profitProducts = src.RemoteProducts
	}
	profitBills := local.Bills
	if len(src.RemoteBills) > 0 {
		profitBills = src.RemoteBills
	}

	return Metrics{
		TotalProducts: prefer(summary.TotalProducts, func() float64 {
			return float64(len(local.Products))
		}),
		TotalStock: prefer(summary.TotalStock, func() float64 {
			return totalStock(local.Products)
		}),
		LowStockItems: prefer(summary.LowStockItems, func() float64 {
			return float64(countLowStock(lowStockProducts))
		}),
		TotalCustomers: prefer(summary.TotalCustomers, func() float64 {
			return float64(len(local.Customers))
		}),
		TodayBills: prefer(summary.TodayBillsGenerated, func() float64 {
			return float64(countBillsOn(local.Bills, now, loc))
		}),
		TotalRevenue: prefer(summary.TotalRevenue, func() float64 {
			return revenue(local.Bills, nil)
		}),
		TotalProfit: Value{Amount: Profit(profitBills, profitProducts), Source: SourceLocal},
		NormalCustomerRevenue: prefer(summary.NormalCustomerRevenue, func() float64 {
			return revenue(local.Bills, customerType(models.CustomerTypeNormal))
		}),
		RetailerCustomerRevenue: prefer(summary.RetailerCustomerRevenue, func() float64 {
			return revenue(local.Bills, customerType(models.CustomerTypeRetailer))
		}),
	}
}

func prefer(server models.NullNumber, fallback func() float64) Value {
	if server.Valid {
		return Value{Amount: server.Value, Source: SourceServer}
	}
	return Value{Amount: fallback(), Source: SourceLocal}
}

func totalStock(products []models.Product) float64 {
	var total float64
	for _, p := range products {
		total += p.Stock
	}
	return total
}

// countLowStock compares fractional stock as-is, so 50.5 is above the threshold.
func countLowStock(products []models.Product) int {
	n := 0
	for _, p := range products {
		if p.Stock <= LowStockThreshold {
			n++
		}
	}
	return n
}

// countBillsOn counts bills whose issue date falls on the same calendar day as
// now, both read in loc. Dates sent without an offset are wall-clock times of
// loc. Bills without a parsable date never match.
func countBillsOn(bills []models.Bill, now time.Time, loc *time.Location) int {
	today := now.In(loc).Format(dayLayout)
	n := 0
	for _, b := range bills {
		if b.Date.IsZero() {
			continue
		}
		if b.IssuedIn(loc).Format(dayLayout) == today {
			n++
		}
	}
	return n
}

func customerType(t models.CustomerType) func(models.Bill) bool {
	return func(b models.Bill) bool { return b.CustomerType == t }
}

func revenue(bills []models.Bill, keep func(models.Bill) bool) float64 {
	var sum float64
	for _, b := range bills {
		if keep == nil || keep(b) {
			sum += b.Total
		}
	}
	return sum
}

// Profit sums (selling price - buying price) * quantity over every line item.
// Items whose product cannot be found are costed at zero. The result is not
// clamped and may be negative.
func Profit(bills []models.Bill, products []models.Product) float64 {
	var profit float64
	for _, b := range bills {
		for _, item := range b.Items {
			var buying float64
			if p, ok := FindProduct(products, item); ok {
				buying = p.BuyingPrice
			}
			profit += (item.Price - buying) * float64(item.Quantity)
		}
	}
	return profit
}

// FindProduct returns the first product matching item by name, then by the
// backend _id, then by id. Empty keys never match.
func FindProduct(products []models.Product, item models.BillItem) (models.Product, bool) {
	for _, p := range products {
		switch {
		case item.ProductName != "" && p.Name == item.ProductName:
			return p, true
		case item.ProductID != "" && p.AltID == item.ProductID:
			return p, true
		case item.ProductID != "" && p.ID == item.ProductID:
			return p, true
		}
	}
	return models.Product{}, false
}
