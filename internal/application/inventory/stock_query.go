package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pintureria-api/internal/application/dto"
	"github.com/jhoicas/Pintureria-api/internal/domain"
	"github.com/jhoicas/Pintureria-api/internal/domain/ledger"
	"github.com/jhoicas/Pintureria-api/internal/domain/repository"
)

// StockQueryUseCase consultas de solo lectura sobre el libro de stock:
// kardex, niveles actuales, sugerencia de ajuste y auditoría de integridad.
type StockQueryUseCase struct {
	movements repository.StockMovementRepository
	products  repository.ProductRepository
	engine    *ledger.Engine
}

// NewStockQueryUseCase construye el caso de uso sobre los repos del backend activo.
func NewStockQueryUseCase(movements repository.StockMovementRepository, products repository.ProductRepository) *StockQueryUseCase {
	return &StockQueryUseCase{
		movements: movements,
		products:  products,
		engine:    ledger.NewEngine(movements),
	}
}

// StockCard arma el kardex del producto: historial completo con saldo corrido
// y verificación por renglón.
func (uc *StockQueryUseCase) StockCard(ctx context.Context, productID string) (*dto.StockCardDTO, error) {
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}

	movements, err := uc.movements.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	entries := ledger.RunningBalances(movements)

	card := &dto.StockCardDTO{
		ProductID:   product.ID,
		SKU:         product.SKU,
		ProductName: product.Name,
		Entries:     make([]dto.StockCardEntryDTO, 0, len(entries)),
	}
	for _, e := range entries {
		card.Entries = append(card.Entries, dto.StockCardEntryDTO{
			MovementDTO: dto.MovementDTO{
				ID:             e.Movement.ID,
				ProductID:      e.Movement.ProductID,
				TransactionID:  e.Movement.TransactionID,
				Type:           e.Movement.Type,
				QuantityBefore: e.Movement.QuantityBefore,
				QuantityChange: e.Movement.QuantityChange,
				QuantityAfter:  e.Movement.QuantityAfter,
				CreatedAt:      e.Movement.CreatedAt,
			},
			RunningBalance: e.RunningBalance,
			Verified:       e.Verified,
		})
	}
	if n := len(entries); n > 0 {
		card.CurrentStock = entries[n-1].Movement.QuantityAfter
	}
	return card, nil
}

// CurrentLevels devuelve los niveles actuales de los productos pedidos; con
// lista vacía consulta todos los productos activos. Todo ID pedido aparece
// en el resultado (0 si no tiene historial).
func (uc *StockQueryUseCase) CurrentLevels(ctx context.Context, productIDs []string) (map[string]int64, error) {
	if len(productIDs) == 0 {
		products, err := uc.products.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			productIDs = append(productIDs, p.ID)
		}
	}
	return uc.engine.CurrentStockLevels(ctx, productIDs)
}

// CurrentStock nivel actual de un solo producto.
func (uc *StockQueryUseCase) CurrentStock(ctx context.Context, productID string) (int64, error) {
	return uc.engine.CurrentStock(ctx, productID)
}

// AdjustmentSuggestion compara el stock derivado con un conteo físico. No
// registra nada: el llamante decide si crear la transacción ADJUST.
func (uc *StockQueryUseCase) AdjustmentSuggestion(ctx context.Context, productID string, actualStock int64) (*ledger.AdjustmentSuggestion, error) {
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return uc.engine.Adjustment(ctx, productID, actualStock)
}

// VerifyIntegrity audita el historial de un producto. Solo diagnóstico.
func (uc *StockQueryUseCase) VerifyIntegrity(ctx context.Context, productID string) (*ledger.IntegrityReport, error) {
	return uc.engine.VerifyIntegrity(ctx, productID)
}

// AuditAll audita todos los productos con historial (herramienta cmd/audit).
func (uc *StockQueryUseCase) AuditAll(ctx context.Context) ([]*ledger.IntegrityReport, error) {
	ids, err := uc.movements.ProductIDs(ctx)
	if err != nil {
		return nil, err
	}
	reports := make([]*ledger.IntegrityReport, 0, len(ids))
	for _, id := range ids {
		report, err := uc.engine.VerifyIntegrity(ctx, id)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Movements devuelve el historial crudo de un producto (export CSV).
func (uc *StockQueryUseCase) Movements(ctx context.Context, productID string) ([]dto.MovementDTO, error) {
	movements, err := uc.movements.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementDTO{
			ID:             m.ID,
			ProductID:      m.ProductID,
			TransactionID:  m.TransactionID,
			Type:           m.Type,
			QuantityBefore: m.QuantityBefore,
			QuantityChange: m.QuantityChange,
			QuantityAfter:  m.QuantityAfter,
			CreatedAt:      m.CreatedAt,
		})
	}
	return out, nil
}
