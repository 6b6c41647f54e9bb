package inventory

import (
	"context"

	"github.com/jhoicas/Pintureria-api/internal/application/dto"
	"github.com/jhoicas/Pintureria-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del backend,
// pasando repositorios atados a esa transacción. Garantiza que los
// movimientos y la transacción que los agrupa se persistan como una sola
// unidad atómica, y que las lecturas del motor dentro del callback vean las
// escrituras pendientes del mismo callback.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		txRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// LevelsInvalidator invalida la caché de niveles de stock tras confirmar una
// transacción. La implementación redis vive en infrastructure/cache.
type LevelsInvalidator interface {
	Invalidate(ctx context.Context) error
}

// KardexPDFGenerator genera la representación imprimible del kardex de un
// producto. La implementación Maroto vive en infrastructure/pdf.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, card *dto.StockCardDTO) ([]byte, error)
}
