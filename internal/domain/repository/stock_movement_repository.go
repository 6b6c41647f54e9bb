package repository

import (
	"context"

	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
)

// StockMovementRepository es el puerto de persistencia del libro de stock.
// El libro es append-only: la única escritura es Create; no existen
// operaciones de actualización ni de borrado de movimientos.
type StockMovementRepository interface {
	// Create añade un movimiento al libro. Asigna ID si viene vacío y
	// devuelve en m.Seq la posición de inserción asignada por el backend.
	Create(ctx context.Context, m *entity.StockMovement) error

	// Latest devuelve el movimiento más reciente del producto según
	// (created_at, seq), o nil si el producto no tiene historial.
	Latest(ctx context.Context, productID string) (*entity.StockMovement, error)

	// ListByProduct devuelve todos los movimientos del producto ordenados
	// por (created_at, seq) ascendente.
	ListByProduct(ctx context.Context, productID string) ([]entity.StockMovement, error)

	// ListByTransaction devuelve los movimientos generados por una transacción.
	ListByTransaction(ctx context.Context, transactionID string) ([]entity.StockMovement, error)

	// ProductIDs devuelve los IDs de producto con al menos un movimiento
	// (usado por la auditoría de integridad).
	ProductIDs(ctx context.Context) ([]string, error)
}
