package dto

import "github.com/shopspring/decimal"

// LowStockItemDTO producto por debajo de su umbral mínimo.
type LowStockItemDTO struct {
	ProductID    string `json:"product_id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	CurrentStock int64  `json:"current_stock"`
	MinStock     int64  `json:"min_stock"`
	Deficit      int64  `json:"deficit"` // MinStock - CurrentStock
}

// DashboardSummaryDTO resumen del dashboard: valorización del inventario y
// productos en alerta de stock bajo.
type DashboardSummaryDTO struct {
	TotalProducts int               `json:"total_products"`
	TotalUnits    int64             `json:"total_units"`
	StockValue    decimal.Decimal   `json:"stock_value"` // Σ stock × costo
	LowStock      []LowStockItemDTO `json:"low_stock"`
}
