package service

import (
	"strconv"

	"github.com/GTDGit/shop_dashboard/internal/utils"
)

// LowStockPath is the client-side route of the low stock listing.
const LowStockPath = "/low-stock"

// Stat is a display record for one dashboard card.
type Stat struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Category string `json:"category"`
	Icon     string `json:"icon"`
	Link     string `json:"link,omitempty"`
}

// PresentStats maps metrics to the nine cards in display order.
func PresentStats(m Metrics, money utils.CurrencyFormatter) []Stat {
	profitCategory := "success"
	if m.TotalProfit.Amount < 0 {
		profitCategory = "destructive"
	}

	return []Stat{
		{Key: "totalProducts", Label: "Total Products", Value: plain(m.TotalProducts.Amount), Category: "primary", Icon: "package"},
		{Key: "totalStock", Label: "Total Stock", Value: plain(m.TotalStock.Amount) + " units", Category: "emerald", Icon: "trending-up"},
		{Key: "lowStockItems", Label: "Low Stock Items", Value: plain(m.LowStockItems.Amount), Category: "warning", Icon: "alert-triangle", Link: LowStockPath},
		{Key: "totalCustomers", Label: "Total Customers", Value: plain(m.TotalCustomers.Amount), Category: "accent", Icon: "users"},
		{Key: "todayBills", Label: "Today's Bills", Value: plain(m.TodayBills.Amount), Category: "primary", Icon: "shopping-cart"},
		{Key: "totalRevenue", Label: "Total Revenue", Value: money.Format(m.TotalRevenue.Amount), Category: "success", Icon: "indian-rupee"},
		{Key: "totalProfit", Label: "Total Profit", Value: money.Format(m.TotalProfit.Amount), Category: profitCategory, Icon: "trending-down"},
		{Key: "normalCustomerRevenue", Label: "Normal Customer Revenue", Value: money.Format(m.NormalCustomerRevenue.Amount), Category: "primary", Icon: "indian-rupee"},
		{Key: "retailerCustomerRevenue", Label: "Retailer Customer Revenue", Value: money.Format(m.RetailerCustomerRevenue.Amount), Category: "warning", Icon: "indian-rupee"},
	}
}

// plain renders counts the way they are shown on cards: no grouping.
func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
