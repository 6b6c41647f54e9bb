package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Pintureria-api/internal/application/dto"
	"github.com/jhoicas/Pintureria-api/internal/domain"
	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
	"github.com/jhoicas/Pintureria-api/internal/domain/ledger"
	"github.com/jhoicas/Pintureria-api/internal/domain/repository"
)

// errAvailability marca internamente un rollback por validación: el resultado
// estructurado viaja aparte y el llamante nunca ve este error.
var errAvailability = errors.New("disponibilidad insuficiente")

// CreateTransactionUseCase registra una transacción de stock: valida
// disponibilidad, calcula los movimientos con el motor y persiste transacción
// + movimientos como una sola unidad atómica vía TxRunner. Una falla de
// validación vuelve como dato (Validation.Valid == false), nunca como error;
// solo los bugs del llamante (tipo desconocido, producto inexistente) y las
// fallas de infraestructura son errores.
type CreateTransactionUseCase struct {
	txRunner TxRunner
	cache    LevelsInvalidator // opcional; nil si no hay caché configurada
}

// NewCreateTransactionUseCase construye el caso de uso. cache puede ser nil.
func NewCreateTransactionUseCase(txRunner TxRunner, cache LevelsInvalidator) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{txRunner: txRunner, cache: cache}
}

// CreateTransactionInput entrada del caso de uso.
type CreateTransactionInput struct {
	Type          string
	Reference     string
	Notes         string
	UserID        string
	Items         []ledger.LineItem
	AllowNegative bool // solo honrado para ADJUST
}

// CreateTransactionResult resultado: o bien la transacción persistida con sus
// movimientos, o bien la validación fallida con todos los renglones en falta.
type CreateTransactionResult struct {
	Transaction *entity.StockTransaction
	Movements   []entity.StockMovement
	Validation  *ledger.AvailabilityResult
}

// Execute corre el flujo completo dentro de una transacción del backend.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionResult, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: la transacción no tiene renglones", domain.ErrInvalidInput)
	}
	for _, item := range input.Items {
		if item.ProductID == "" {
			return nil, fmt.Errorf("%w: renglón sin producto", domain.ErrInvalidInput)
		}
	}
	// Probar el tipo antes de abrir la transacción: un tipo desconocido es
	// bug del llamante y no amerita tocar el backend.
	if _, err := ledger.QuantityChange(input.Type, 1); err != nil {
		return nil, err
	}

	result := &CreateTransactionResult{}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		txRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
	) error {
		// Todos los productos del lote deben existir.
		seen := make(map[string]struct{}, len(input.Items))
		for _, item := range input.Items {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			product, err := productRepo.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
			}
		}

		// Motor sobre el repo atado a la tx: las lecturas ven las escrituras
		// pendientes de esta misma transacción.
		engine := ledger.NewEngine(movRepo)

		validation, err := engine.ValidateAvailability(ctx, input.Items, input.Type, input.AllowNegative)
		if err != nil {
			return err
		}
		result.Validation = validation
		if !validation.Valid {
			return errAvailability // rollback; el resultado viaja en result
		}

		tx := &entity.StockTransaction{
			ID:        uuid.New().String(),
			Type:      input.Type,
			Reference: input.Reference,
			Notes:     input.Notes,
			CreatedAt: time.Now(),
			CreatedBy: input.UserID,
		}

		drafts, err := engine.CalculateMovements(ctx, input.Items, input.Type, tx.ID)
		if err != nil {
			return err
		}

		if err := txRepo.Create(ctx, tx); err != nil {
			return err
		}
		movements := make([]entity.StockMovement, 0, len(drafts))
		for i := range drafts {
			drafts[i].CreatedAt = tx.CreatedAt
			if err := movRepo.Create(ctx, &drafts[i]); err != nil {
				return err
			}
			movements = append(movements, drafts[i])
		}

		result.Transaction = tx
		result.Movements = movements
		return nil
	})
	if err != nil {
		if errors.Is(err, errAvailability) {
			return result, nil
		}
		return nil, err
	}

	if uc.cache != nil {
		// Mejor esfuerzo: la caché expira sola por TTL si esto falla.
		_ = uc.cache.Invalidate(ctx)
	}
	return result, nil
}

// ExecuteFromRequest adapta el request HTTP al caso de uso.
func (uc *CreateTransactionUseCase) ExecuteFromRequest(ctx context.Context, userID string, in dto.CreateTransactionRequest) (*CreateTransactionResult, error) {
	return uc.Execute(ctx, CreateTransactionInput{
		Type:          in.Type,
		Reference:     in.Reference,
		Notes:         in.Notes,
		UserID:        userID,
		Items:         in.Items,
		AllowNegative: in.AllowNegative,
	})
}
