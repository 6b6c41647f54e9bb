package entity

import "time"

// StockTransaction agrupa los movimientos generados por una operación de
// negocio (una compra, una venta, un ajuste por conteo). Una transacción
// produce un movimiento por renglón y todos se persisten en forma atómica
// junto con la transacción misma.
type StockTransaction struct {
	ID        string
	Type      string // mismo vocabulario que los movimientos: IN, OUT, ADJUST...
	Reference string // factura, remito, acta de conteo
	Notes     string
	CreatedAt time.Time
	CreatedBy string // UserID, vacío en modo demo
}
