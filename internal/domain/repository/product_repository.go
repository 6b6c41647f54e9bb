package repository

import (
	"context"

	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia de productos.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]entity.Product, error)
	// ListActive devuelve todos los productos activos (dashboard y auditoría).
	ListActive(ctx context.Context) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
}
