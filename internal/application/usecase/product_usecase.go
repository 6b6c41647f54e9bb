package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Pintureria-api/internal/application/dto"
	"github.com/jhoicas/Pintureria-api/internal/domain"
	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
	"github.com/jhoicas/Pintureria-api/internal/domain/ledger"
	"github.com/jhoicas/Pintureria-api/internal/domain/repository"
)

// ProductUseCase CRUD de productos. Las respuestas incluyen el stock actual
// derivado del libro; el producto mismo nunca lo almacena.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	engine      *ledger.Engine
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository, movements ledger.MovementReader) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, engine: ledger.NewEngine(movements)}
}

// Create valida y persiste un producto nuevo.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		Finish:      in.Finish,
		UnitMeasure: in.UnitMeasure,
		Price:       in.Price,
		Cost:        in.Cost,
		MinStock:    in.MinStock,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.UnitMeasure == "" {
		product.UnitMeasure = "unidad"
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, product)
}

// GetByID obtiene un producto con su stock actual derivado.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(ctx, product)
}

// List lista productos paginados con su stock actual.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) ([]dto.ProductResponse, error) {
	products, err := uc.productRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp, err := uc.toResponse(ctx, &products[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// Update actualiza los datos editables del producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	product.Description = in.Description
	product.Color = in.Color
	product.Finish = in.Finish
	if in.UnitMeasure != "" {
		product.UnitMeasure = in.UnitMeasure
	}
	product.Price = in.Price
	product.Cost = in.Cost
	product.MinStock = in.MinStock
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, product)
}

func (uc *ProductUseCase) toResponse(ctx context.Context, p *entity.Product) (*dto.ProductResponse, error) {
	stock, err := uc.engine.CurrentStock(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Color:        p.Color,
		Finish:       p.Finish,
		UnitMeasure:  p.UnitMeasure,
		Price:        p.Price,
		Cost:         p.Cost,
		MinStock:     p.MinStock,
		CurrentStock: stock,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
	}, nil
}
