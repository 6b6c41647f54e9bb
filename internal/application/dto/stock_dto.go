package dto

import (
	"time"

	"github.com/jhoicas/Pintureria-api/internal/domain/ledger"
)

// CreateTransactionRequest cuerpo para registrar una transacción de stock.
// Quantity por renglón se normaliza según el tipo; para ADJUST el signo lo
// controla el llamante. AllowNegative solo aplica a ADJUST (conteo físico).
type CreateTransactionRequest struct {
	Type          string            `json:"type"`
	Reference     string            `json:"reference"`
	Notes         string            `json:"notes"`
	Items         []ledger.LineItem `json:"items"`
	AllowNegative bool              `json:"allow_negative"`
}

// MovementDTO representación de un movimiento en respuestas.
type MovementDTO struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	TransactionID  string    `json:"transaction_id"`
	Type           string    `json:"type"`
	QuantityBefore int64     `json:"quantity_before"`
	QuantityChange int64     `json:"quantity_change"`
	QuantityAfter  int64     `json:"quantity_after"`
	CreatedAt      time.Time `json:"created_at"`
}

// TransactionDTO transacción con sus movimientos.
type TransactionDTO struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"`
	Reference string        `json:"reference"`
	Notes     string        `json:"notes"`
	CreatedAt time.Time     `json:"created_at"`
	CreatedBy string        `json:"created_by,omitempty"`
	Movements []MovementDTO `json:"movements,omitempty"`
}

// CreateTransactionResponse resultado de registrar una transacción. Si la
// validación de disponibilidad falla, Validation.Valid es false, Transaction
// es nil y nada quedó persistido.
type CreateTransactionResponse struct {
	Transaction *TransactionDTO            `json:"transaction,omitempty"`
	Validation  *ledger.AvailabilityResult `json:"validation"`
}

// StockCardEntryDTO renglón del kardex: movimiento + saldo corrido.
type StockCardEntryDTO struct {
	MovementDTO
	RunningBalance int64 `json:"running_balance"`
	Verified       bool  `json:"balance_verified"`
}

// StockCardDTO kardex de un producto.
type StockCardDTO struct {
	ProductID    string              `json:"product_id"`
	SKU          string              `json:"sku"`
	ProductName  string              `json:"product_name"`
	CurrentStock int64               `json:"current_stock"`
	Entries      []StockCardEntryDTO `json:"entries"`
}

// StockLevelsDTO niveles actuales por producto.
type StockLevelsDTO struct {
	Levels map[string]int64 `json:"levels"`
}

// AdjustmentRequest cuerpo para sugerir un ajuste contra conteo físico.
type AdjustmentRequest struct {
	ActualStock int64 `json:"actual_stock"`
}
