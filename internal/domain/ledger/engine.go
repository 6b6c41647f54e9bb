// Package ledger implementa el motor del libro de stock: stock actual
// derivado del último movimiento, validación de disponibilidad, cálculo de
// movimientos por transacción, saldos corridos y auditoría de integridad.
//
// El motor no guarda estado entre llamadas: todo el estado es el libro de
// movimientos, leído a través del puerto MovementReader. Para que las
// lecturas dentro de una transacción en curso vean las escrituras de esa
// misma transacción (read-your-writes), se construye un Engine sobre el
// repositorio atado a la tx en lugar del atado al pool.
package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Pintureria-api/internal/domain"
	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
)

// MovementReader es el subconjunto de lectura del repositorio de movimientos
// que necesita el motor. Lo implementan los backends de PostgreSQL y memoria.
type MovementReader interface {
	Latest(ctx context.Context, productID string) (*entity.StockMovement, error)
	ListByProduct(ctx context.Context, productID string) ([]entity.StockMovement, error)
}

// Engine motor del libro de stock. Sin estado propio: ver doc del paquete.
type Engine struct {
	movements MovementReader
}

// NewEngine construye el motor sobre un lector de movimientos (pool, tx o memoria).
func NewEngine(movements MovementReader) *Engine {
	return &Engine{movements: movements}
}

// LineItem renglón de una transacción: producto y cantidad solicitada.
type LineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// QuantityChange normaliza la cantidad al delta con signo según el tipo:
// IN y RETURN_IN suman abs(quantity); OUT y RETURN_OUT restan abs(quantity);
// ADJUST respeta el signo del llamante. Un tipo desconocido devuelve
// domain.ErrUnknownMovementType: es un bug del llamante, no se reintenta.
func QuantityChange(movementType string, quantity int64) (int64, error) {
	switch movementType {
	case entity.MovementTypeIN, entity.MovementTypeRETURNIN:
		return abs64(quantity), nil
	case entity.MovementTypeOUT, entity.MovementTypeRETURNOUT:
		return -abs64(quantity), nil
	case entity.MovementTypeADJUST:
		return quantity, nil
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownMovementType, movementType)
	}
}

// CurrentStock devuelve el QuantityAfter del movimiento más reciente del
// producto, o 0 si no tiene historial. El stock actual es siempre derivado:
// no existe un campo "stock" editable en ninguna parte del sistema.
func (e *Engine) CurrentStock(ctx context.Context, productID string) (int64, error) {
	last, err := e.movements.Latest(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("último movimiento de %s: %w", productID, err)
	}
	if last == nil {
		return 0, nil
	}
	return last.QuantityAfter, nil
}

// CurrentStockLevels versión batch de CurrentStock. Todo ID de entrada
// aparece como clave en el resultado; sin historial mapea a 0.
func (e *Engine) CurrentStockLevels(ctx context.Context, productIDs []string) (map[string]int64, error) {
	levels := make(map[string]int64, len(productIDs))
	for _, id := range productIDs {
		if _, ok := levels[id]; ok {
			continue
		}
		stock, err := e.CurrentStock(ctx, id)
		if err != nil {
			return nil, err
		}
		levels[id] = stock
	}
	return levels, nil
}

// AvailabilityError un renglón que no puede debitarse: cuánto hay, cuánto se
// pidió y cuánto falta (Shortfall = RequestedQuantity - CurrentStock).
type AvailabilityError struct {
	ProductID         string `json:"product_id"`
	CurrentStock      int64  `json:"current_stock"`
	RequestedQuantity int64  `json:"requested_quantity"`
	Shortfall         int64  `json:"shortfall"`
}

// AvailabilityResult resultado estructurado de la validación: Valid es true
// si y solo si Errors está vacío. Lista TODOS los renglones que fallan, no
// solo el primero, para que la UI pueda mostrarlos de una vez.
type AvailabilityResult struct {
	Valid  bool                `json:"valid"`
	Errors []AvailabilityError `json:"errors"`
}

// ValidateAvailability valida que los débitos del lote no excedan el stock
// disponible. Los créditos (IN, RETURN_IN, ADJUST con cantidad no negativa)
// nunca fallan. allowNegative permite que el stock quede negativo y solo se
// honra para ADJUST (conteo físico autoritativo); OUT y RETURN_OUT validan
// siempre.
//
// Los renglones repetidos de un mismo producto se validan contra un
// acumulador por producto: cada débito aceptado consume disponibilidad para
// los renglones siguientes, y CurrentStock en el error refleja lo disponible
// al evaluar ese renglón.
func (e *Engine) ValidateAvailability(ctx context.Context, items []LineItem, movementType string, allowNegative bool) (*AvailabilityResult, error) {
	skipCheck := allowNegative && movementType == entity.MovementTypeADJUST

	available := make(map[string]int64, len(items))
	result := &AvailabilityResult{Valid: true}

	for _, item := range items {
		change, err := QuantityChange(movementType, item.Quantity)
		if err != nil {
			return nil, err
		}
		avail, ok := available[item.ProductID]
		if !ok {
			avail, err = e.CurrentStock(ctx, item.ProductID)
			if err != nil {
				return nil, err
			}
		}
		if change >= 0 {
			available[item.ProductID] = avail + change
			continue
		}
		requested := -change
		if !skipCheck && requested > avail {
			result.Errors = append(result.Errors, AvailabilityError{
				ProductID:         item.ProductID,
				CurrentStock:      avail,
				RequestedQuantity: requested,
				Shortfall:         requested - avail,
			})
			// El renglón rechazado no se aplicará: no consume disponibilidad.
			available[item.ProductID] = avail
			continue
		}
		available[item.ProductID] = avail + change
	}

	result.Valid = len(result.Errors) == 0
	return result, nil
}

// CalculateMovements produce los borradores de movimiento de una transacción,
// uno por renglón. No persiste nada: el llamante guarda los borradores junto
// con la transacción en una sola operación atómica. Asume disponibilidad ya
// validada; no la re-verifica.
//
// El saldo por producto se lleva en un acumulador explícito sembrado con el
// stock actual en la primera aparición de cada producto, de modo que los
// renglones repetidos acumulan correctamente sin depender del orden de
// ejecución de las lecturas.
func (e *Engine) CalculateMovements(ctx context.Context, items []LineItem, movementType, transactionID string) ([]entity.StockMovement, error) {
	running := make(map[string]int64, len(items))
	drafts := make([]entity.StockMovement, 0, len(items))

	for _, item := range items {
		change, err := QuantityChange(movementType, item.Quantity)
		if err != nil {
			return nil, err
		}
		before, ok := running[item.ProductID]
		if !ok {
			before, err = e.CurrentStock(ctx, item.ProductID)
			if err != nil {
				return nil, err
			}
		}
		after := before + change
		drafts = append(drafts, entity.StockMovement{
			ProductID:      item.ProductID,
			TransactionID:  transactionID,
			Type:           movementType,
			QuantityBefore: before,
			QuantityChange: change,
			QuantityAfter:  after,
		})
		running[item.ProductID] = after
	}
	return drafts, nil
}

// BalanceEntry un movimiento anotado con su saldo corrido y si ese saldo
// coincide con el QuantityAfter registrado.
type BalanceEntry struct {
	Movement       entity.StockMovement
	RunningBalance int64
	Verified       bool
}

// RunningBalances ordena los movimientos de un producto por (CreatedAt, Seq)
// ascendente y recorre la secuencia acumulando el saldo desde 0. El orden de
// entrada es irrelevante: el resultado es estable ante cualquier permutación.
// Se usa para el kardex y como bloque de la verificación de integridad.
func RunningBalances(movements []entity.StockMovement) []BalanceEntry {
	sorted := make([]entity.StockMovement, len(movements))
	copy(sorted, movements)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].Seq < sorted[j].Seq
	})

	entries := make([]BalanceEntry, 0, len(sorted))
	var running int64
	for _, m := range sorted {
		running += m.QuantityChange
		entries = append(entries, BalanceEntry{
			Movement:       m,
			RunningBalance: running,
			Verified:       running == m.QuantityAfter,
		})
	}
	return entries
}

// Clasificación del ajuste sugerido por Adjustment.
const (
	AdjustmentIncrease = "INCREASE"
	AdjustmentDecrease = "DECREASE"
	AdjustmentNoChange = "NO_CHANGE"
)

// AdjustmentSuggestion resultado del cálculo de ajuste contra conteo físico.
// AdjustmentQuantity es siempre no negativo; el signo lo da AdjustmentType.
type AdjustmentSuggestion struct {
	ProductID          string `json:"product_id"`
	CurrentStock       int64  `json:"current_stock"`
	ActualStock        int64  `json:"actual_stock"`
	Difference         int64  `json:"difference"`
	AdjustmentType     string `json:"adjustment_type"`
	AdjustmentQuantity int64  `json:"adjustment_quantity"`
}

// Adjustment compara el stock derivado con un conteo físico y clasifica la
// corrección necesaria. Es lectura pura: no crea ningún movimiento. El
// llamante arma un renglón ADJUST con la cantidad sugerida si es distinta
// de cero.
func (e *Engine) Adjustment(ctx context.Context, productID string, actualStock int64) (*AdjustmentSuggestion, error) {
	current, err := e.CurrentStock(ctx, productID)
	if err != nil {
		return nil, err
	}
	diff := actualStock - current
	s := &AdjustmentSuggestion{
		ProductID:    productID,
		CurrentStock: current,
		ActualStock:  actualStock,
		Difference:   diff,
	}
	switch {
	case diff > 0:
		s.AdjustmentType = AdjustmentIncrease
		s.AdjustmentQuantity = diff
	case diff < 0:
		s.AdjustmentType = AdjustmentDecrease
		s.AdjustmentQuantity = -diff
	default:
		s.AdjustmentType = AdjustmentNoChange
	}
	return s, nil
}

// Tipos de inconsistencia que reporta VerifyIntegrity.
const (
	IssueBalanceMismatch  = "BALANCE_MISMATCH"  // QuantityBefore ≠ QuantityAfter del anterior
	IssueCalculationError = "CALCULATION_ERROR" // QuantityAfter ≠ QuantityBefore + QuantityChange
)

// IntegrityIssue una inconsistencia puntual en el historial de un producto.
type IntegrityIssue struct {
	MovementID string `json:"movement_id"`
	Index      int    `json:"index"` // posición en el historial ordenado
	Issue      string `json:"issue"`
	Expected   int64  `json:"expected"`
	Actual     int64  `json:"actual"`
}

// IntegrityReport resultado de la auditoría de un producto. Solo diagnóstico:
// la auditoría jamás repara ni muta datos.
type IntegrityReport struct {
	Valid          bool             `json:"valid"`
	ProductID      string           `json:"product_id"`
	TotalMovements int              `json:"total_movements"`
	FinalBalance   int64            `json:"final_balance"`
	Errors         []IntegrityIssue `json:"errors"`
	Message        string           `json:"message,omitempty"`
}

// VerifyIntegrity recorre el historial completo del producto en orden
// cronológico y verifica, por movimiento, que QuantityBefore encadene con el
// QuantityAfter registrado del movimiento anterior (0 para el primero) y que
// QuantityAfter sea QuantityBefore + QuantityChange. El encadenamiento usa el
// valor registrado, no el saldo recalculado: un único QuantityBefore erróneo
// produce exactamente un BALANCE_MISMATCH, sin cascada sobre el resto.
func (e *Engine) VerifyIntegrity(ctx context.Context, productID string) (*IntegrityReport, error) {
	movements, err := e.movements.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("historial de %s: %w", productID, err)
	}
	report := &IntegrityReport{ProductID: productID, TotalMovements: len(movements)}
	if len(movements) == 0 {
		report.Valid = true
		report.Message = "el producto no tiene movimientos registrados"
		return report, nil
	}

	expected := int64(0)
	for i, m := range movements {
		if m.QuantityBefore != expected {
			report.Errors = append(report.Errors, IntegrityIssue{
				MovementID: m.ID,
				Index:      i,
				Issue:      IssueBalanceMismatch,
				Expected:   expected,
				Actual:     m.QuantityBefore,
			})
		}
		if got := m.QuantityBefore + m.QuantityChange; got != m.QuantityAfter {
			report.Errors = append(report.Errors, IntegrityIssue{
				MovementID: m.ID,
				Index:      i,
				Issue:      IssueCalculationError,
				Expected:   got,
				Actual:     m.QuantityAfter,
			})
		}
		expected = m.QuantityAfter
	}

	report.FinalBalance = movements[len(movements)-1].QuantityAfter
	report.Valid = len(report.Errors) == 0
	return report, nil
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
