package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest cuerpo para crear un producto.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Color       string          `json:"color"`
	Finish      string          `json:"finish"`
	UnitMeasure string          `json:"unit_measure"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	MinStock    int64           `json:"min_stock"`
}

// UpdateProductRequest cuerpo para actualizar un producto.
type UpdateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Color       string          `json:"color"`
	Finish      string          `json:"finish"`
	UnitMeasure string          `json:"unit_measure"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	MinStock    int64           `json:"min_stock"`
	Active      *bool           `json:"active"`
}

// ProductResponse producto en respuestas. CurrentStock es derivado del libro
// de movimientos en el momento de la consulta, no un campo almacenado.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Color        string          `json:"color,omitempty"`
	Finish       string          `json:"finish,omitempty"`
	UnitMeasure  string          `json:"unit_measure"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	MinStock     int64           `json:"min_stock"`
	CurrentStock int64           `json:"current_stock"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
}
