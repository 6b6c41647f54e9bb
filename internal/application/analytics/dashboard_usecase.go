// Package analytics contiene los casos de uso de reportes del negocio:
// resumen del dashboard (valorización y alertas de stock bajo).
package analytics

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pintureria-api/internal/application/dto"
	"github.com/jhoicas/Pintureria-api/internal/domain/ledger"
	"github.com/jhoicas/Pintureria-api/internal/domain/repository"
)

// SummaryCache caché del resumen del dashboard (implementación redis en
// infrastructure/cache). Get devuelve nil sin error en cache miss.
type SummaryCache interface {
	Get(ctx context.Context) (*dto.DashboardSummaryDTO, error)
	Set(ctx context.Context, summary *dto.DashboardSummaryDTO) error
}

// DashboardUseCase arma el resumen del inventario: total de unidades,
// valorización (Σ stock × costo) y productos bajo su umbral mínimo.
//
// El resumen recorre todos los productos activos y deriva cada nivel del
// libro de movimientos, por eso se sirve detrás de una caché con TTL que la
// creación de transacciones invalida.
type DashboardUseCase struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	cache     SummaryCache // opcional; nil sin caché
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(products repository.ProductRepository, movements repository.StockMovementRepository, cache SummaryCache) *DashboardUseCase {
	return &DashboardUseCase{products: products, movements: movements, cache: cache}
}

// GetSummary devuelve el resumen, desde caché si está disponible.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	products, err := uc.products.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	engine := ledger.NewEngine(uc.movements)
	summary := &dto.DashboardSummaryDTO{
		TotalProducts: len(products),
		StockValue:    decimal.Zero,
		LowStock:      []dto.LowStockItemDTO{},
	}

	for _, p := range products {
		stock, err := engine.CurrentStock(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		summary.TotalUnits += stock
		if stock > 0 {
			summary.StockValue = summary.StockValue.Add(p.Cost.Mul(decimal.NewFromInt(stock)))
		}
		if stock < p.MinStock {
			summary.LowStock = append(summary.LowStock, dto.LowStockItemDTO{
				ProductID:    p.ID,
				SKU:          p.SKU,
				Name:         p.Name,
				CurrentStock: stock,
				MinStock:     p.MinStock,
				Deficit:      p.MinStock - stock,
			})
		}
	}

	if uc.cache != nil {
		// Mejor esfuerzo: si la caché no responde, el resumen igual sale.
		_ = uc.cache.Set(ctx, summary)
	}
	return summary, nil
}
