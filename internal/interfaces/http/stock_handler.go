package http

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pintureria-api/internal/application/dto"
	"github.com/jhoicas/Pintureria-api/internal/application/inventory"
	"github.com/jhoicas/Pintureria-api/internal/domain"
)

// StockHandler consultas del libro de stock: niveles, kardex (JSON, PDF y
// CSV), sugerencia de ajuste y auditoría de integridad (protegido).
type StockHandler struct {
	query *inventory.StockQueryUseCase
	pdf   inventory.KardexPDFGenerator
}

// NewStockHandler construye el handler. pdf puede ser nil (el endpoint PDF
// responde 501 en ese caso).
func NewStockHandler(query *inventory.StockQueryUseCase, pdf inventory.KardexPDFGenerator) *StockHandler {
	return &StockHandler{query: query, pdf: pdf}
}

// Levels godoc
// @Summary      Niveles actuales de stock
// @Description  Sin product_ids devuelve los niveles de todos los productos
//
//	activos. Todo ID pedido aparece en el resultado, con 0 si no tiene
//	historial de movimientos.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_ids  query  string  false  "IDs separados por coma"
// @Success      200  {object}  dto.StockLevelsDTO
// @Router       /api/stock/levels [get]
func (h *StockHandler) Levels(c *fiber.Ctx) error {
	var ids []string
	if raw := c.Query("product_ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	levels, err := h.query.CurrentLevels(c.Context(), ids)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.StockLevelsDTO{Levels: levels})
}

// Kardex godoc
// @Summary      Kardex de un producto
// @Description  Historial completo con saldo corrido recalculado y
//
//	verificación por renglón contra el saldo registrado.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockCardDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/kardex [get]
func (h *StockHandler) Kardex(c *fiber.Ctx) error {
	card, err := h.stockCard(c)
	if err != nil {
		return kardexError(c, err)
	}
	return c.JSON(card)
}

// KardexPDF godoc
// @Summary      Kardex de un producto en PDF
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/kardex/pdf [get]
func (h *StockHandler) KardexPDF(c *fiber.Ctx) error {
	if h.pdf == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "PDF_DISABLED", Message: "generación de PDF no configurada"})
	}
	card, err := h.stockCard(c)
	if err != nil {
		return kardexError(c, err)
	}
	raw, genErr := h.pdf.GenerateKardexPDF(c.Context(), card)
	if genErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_GENERATION", Message: genErr.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=kardex-%s.pdf", card.SKU))
	return c.Send(raw)
}

// KardexCSV godoc
// @Summary      Kardex de un producto en CSV
// @Tags         stock
// @Security     Bearer
// @Produce      text/csv
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/kardex/csv [get]
func (h *StockHandler) KardexCSV(c *fiber.Ctx) error {
	card, err := h.stockCard(c)
	if err != nil {
		return kardexError(c, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"fecha", "tipo", "transaccion", "antes", "cambio", "despues", "saldo", "verificado"})
	for _, e := range card.Entries {
		_ = w.Write([]string{
			e.CreatedAt.Format(time.RFC3339),
			e.Type,
			e.TransactionID,
			fmt.Sprintf("%d", e.QuantityBefore),
			fmt.Sprintf("%d", e.QuantityChange),
			fmt.Sprintf("%d", e.QuantityAfter),
			fmt.Sprintf("%d", e.RunningBalance),
			fmt.Sprintf("%t", e.Verified),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "CSV_EXPORT", Message: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=kardex-%s.csv", card.SKU))
	return c.Send(buf.Bytes())
}

// AdjustmentSuggestion godoc
// @Summary      Sugerir ajuste contra conteo físico
// @Description  Compara el stock derivado con el conteo físico reportado y
//
//	clasifica la discrepancia (INCREASE, DECREASE o NO_CHANGE). No registra
//	nada: el ajuste se confirma creando una transacción ADJUST.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.AdjustmentRequest  true  "actual_stock"
// @Success      200   {object}  ledger.AdjustmentSuggestion
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/adjustment [post]
func (h *StockHandler) AdjustmentSuggestion(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	suggestion, err := h.query.AdjustmentSuggestion(c.Context(), id, in.ActualStock)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(suggestion)
}

// Integrity godoc
// @Summary      Auditar integridad del historial de un producto
// @Description  Recalcula la cadena de saldos y reporta discrepancias
//
//	(BALANCE_MISMATCH, CALCULATION_ERROR). Solo diagnóstico: no modifica el
//	libro.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  ledger.IntegrityReport
// @Router       /api/stock/{id}/integrity [get]
func (h *StockHandler) Integrity(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	report, err := h.query.VerifyIntegrity(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(report)
}

// stockCard resuelve el kardex del producto de la URL.
func (h *StockHandler) stockCard(c *fiber.Ctx) (*dto.StockCardDTO, error) {
	id := c.Params("id")
	if id == "" {
		return nil, fmt.Errorf("%w: id es requerido", domain.ErrInvalidInput)
	}
	return h.query.StockCard(c.Context(), id)
}

// kardexError traduce los errores del kardex a una respuesta HTTP.
func kardexError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
