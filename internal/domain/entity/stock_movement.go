package entity

import "time"

// Tipos de movimiento del libro de stock.
const (
	MovementTypeIN        = "IN"         // entrada (compra a proveedor)
	MovementTypeOUT       = "OUT"        // salida (venta)
	MovementTypeADJUST    = "ADJUST"     // ajuste contra conteo físico (signo del llamante)
	MovementTypeRETURNIN  = "RETURN_IN"  // devolución de cliente (reingresa stock)
	MovementTypeRETURNOUT = "RETURN_OUT" // devolución a proveedor (sale stock)
)

// StockMovement es una entrada del libro de stock: append-only e inmutable.
// Nunca se edita ni se borra; las correcciones se registran como nuevos
// movimientos ADJUST. El stock actual de un producto es siempre el
// QuantityAfter de su movimiento más reciente, jamás un campo aparte.
//
// Invariante por producto: ordenados por (CreatedAt, Seq) ascendente, el
// QuantityBefore de cada movimiento es igual al QuantityAfter del anterior
// (o 0 si es el primero), y QuantityAfter = QuantityBefore + QuantityChange.
type StockMovement struct {
	ID             string
	ProductID      string
	TransactionID  string
	Type           string // IN, OUT, ADJUST, RETURN_IN, RETURN_OUT
	QuantityBefore int64
	QuantityChange int64 // delta con signo
	QuantityAfter  int64
	CreatedAt      time.Time
	Seq            int64 // asignado por el backend; desempata CreatedAt iguales
}
