package repository

import (
	"context"

	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
)

// TransactionRepository puerto de persistencia de transacciones de stock.
// Las transacciones no se editan: las correcciones se hacen con nuevas
// transacciones ADJUST (igual que los movimientos que agrupan).
type TransactionRepository interface {
	Create(ctx context.Context, t *entity.StockTransaction) error
	GetByID(ctx context.Context, id string) (*entity.StockTransaction, error)
	List(ctx context.Context, limit, offset int) ([]entity.StockTransaction, error)
}
