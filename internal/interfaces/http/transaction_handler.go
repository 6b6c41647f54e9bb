package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pintureria-api/internal/application/dto"
	"github.com/jhoicas/Pintureria-api/internal/application/inventory"
	"github.com/jhoicas/Pintureria-api/internal/domain"
)

// TransactionHandler maneja el registro y consulta de transacciones de stock
// (protegido).
type TransactionHandler struct {
	create *inventory.CreateTransactionUseCase
	query  *inventory.TransactionQueryUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(create *inventory.CreateTransactionUseCase, query *inventory.TransactionQueryUseCase) *TransactionHandler {
	return &TransactionHandler{create: create, query: query}
}

// Create godoc
// @Summary      Registrar transacción de stock
// @Description  Valida disponibilidad y persiste la transacción con sus
//
//	movimientos de forma atómica. Una validación fallida responde 409 con el
//	detalle por renglón (product_id, current_stock, requested_quantity,
//	shortfall) y no persiste nada.
//
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "type, reference, notes, items, allow_negative (solo ADJUST)"
// @Success      201   {object}  dto.CreateTransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.CreateTransactionResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	result, err := h.create.ExecuteFromRequest(c.Context(), GetUserID(c), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrUnknownMovementType) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_MOVEMENT_TYPE", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	resp := dto.CreateTransactionResponse{Validation: result.Validation}
	if result.Validation != nil && !result.Validation.Valid {
		// Nada quedó persistido: el detalle por renglón viaja en validation.
		return c.Status(fiber.StatusConflict).JSON(resp)
	}

	tx := toTransactionDTO(result)
	resp.Transaction = &tx
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID godoc
// @Summary      Obtener transacción con sus movimientos
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.query.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "transacción no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar transacciones
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.TransactionDTO
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.query.List(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// toTransactionDTO arma el DTO de respuesta desde el resultado del caso de uso.
func toTransactionDTO(result *inventory.CreateTransactionResult) dto.TransactionDTO {
	tx := dto.TransactionDTO{
		ID:        result.Transaction.ID,
		Type:      result.Transaction.Type,
		Reference: result.Transaction.Reference,
		Notes:     result.Transaction.Notes,
		CreatedAt: result.Transaction.CreatedAt,
		CreatedBy: result.Transaction.CreatedBy,
	}
	for _, m := range result.Movements {
		tx.Movements = append(tx.Movements, dto.MovementDTO{
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
	return tx
}
