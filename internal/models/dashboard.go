package models

import "time"

// MetricsSummary is the precomputed summary served by the shop backend.
// Every field is optional; an invalid field means the server did not supply it.
type MetricsSummary struct {
	TotalProducts           NullNumber       `json:"totalProducts"`
	TotalStock              NullNumber       `json:"totalStock"`
	LowStockItems           NullNumber       `json:"lowStockItems"`
	TotalCustomers          NullNumber       `json:"totalCustomers"`
	TotalRevenue            NullNumber       `json:"totalRevenue"`
	NormalCustomerRevenue   NullNumber       `json:"normalCustomerRevenue"`
	RetailerCustomerRevenue NullNumber       `json:"retailerCustomerRevenue"`
	TodayRevenue            NullNumber       `json:"todayRevenue"`
	TodayBillsGenerated     NullNumber       `json:"todayBillsGenerated"`
	RecentBills             List[RecentBill] `json:"recentBills,omitempty"`
}

// Snapshot is a read-only view of the locally cached collections.
type Snapshot struct {
	Products  []Product  `json:"products"`
	Bills     []Bill     `json:"bills"`
	Customers []Customer `json:"customers"`
	LoadedAt  time.Time  `json:"loadedAt"`
}
