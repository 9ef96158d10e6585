package model

import "github.com/shopspring/decimal"

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalProducts  int             `json:"total_products"`
	LowStockCount  int             `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

// ComputeStats aggregates the overview numbers over a product list.
func ComputeStats(products []Product) DashboardStats {
	stats := DashboardStats{TotalValuation: decimal.Zero}
	for _, p := range products {
		stats.TotalProducts++
		if p.IsLowStock() {
			stats.LowStockCount++
		}
		stats.TotalValuation = stats.TotalValuation.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return stats
}
