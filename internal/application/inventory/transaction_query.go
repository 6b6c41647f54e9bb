package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pintureria-api/internal/application/dto"
	"github.com/jhoicas/Pintureria-api/internal/domain"
	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
	"github.com/jhoicas/Pintureria-api/internal/domain/repository"
)

// TransactionQueryUseCase consultas de solo lectura sobre transacciones.
type TransactionQueryUseCase struct {
	transactions repository.TransactionRepository
	movements    repository.StockMovementRepository
}

// NewTransactionQueryUseCase construye el caso de uso.
func NewTransactionQueryUseCase(transactions repository.TransactionRepository, movements repository.StockMovementRepository) *TransactionQueryUseCase {
	return &TransactionQueryUseCase{transactions: transactions, movements: movements}
}

// GetByID devuelve la transacción con todos sus movimientos.
func (uc *TransactionQueryUseCase) GetByID(ctx context.Context, id string) (*dto.TransactionDTO, error) {
	tx, err := uc.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: transacción %s", domain.ErrNotFound, id)
	}
	movements, err := uc.movements.ListByTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toTransactionDTO(tx, movements)
	return &out, nil
}

// List devuelve transacciones paginadas, sin sus movimientos.
func (uc *TransactionQueryUseCase) List(ctx context.Context, limit, offset int) ([]dto.TransactionDTO, error) {
	txs, err := uc.transactions.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionDTO, 0, len(txs))
	for i := range txs {
		out = append(out, toTransactionDTO(&txs[i], nil))
	}
	return out, nil
}

func toTransactionDTO(tx *entity.StockTransaction, movements []entity.StockMovement) dto.TransactionDTO {
	out := dto.TransactionDTO{
		ID:        tx.ID,
		Type:      tx.Type,
		Reference: tx.Reference,
		Notes:     tx.Notes,
		CreatedAt: tx.CreatedAt,
		CreatedBy: tx.CreatedBy,
	}
	for _, m := range movements {
		out.Movements = append(out.Movements, dto.MovementDTO{
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
	return out
}
