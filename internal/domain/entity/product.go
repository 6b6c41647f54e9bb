package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto de la pinturería (pintura, solvente, brocha...).
// No almacena stock actual: el stock se deriva siempre del libro de movimientos.
// MinStock es el umbral de alerta para el dashboard de stock bajo.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	Color       string          // ej. "Blanco Hueso", vacío para no-pinturas
	Finish      string          // mate, satinado, brillante
	UnitMeasure string          // galón, litro, unidad
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo unitario (valorización de inventario)
	MinStock    int64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
