package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pintureria-api/internal/application/analytics"
	"github.com/jhoicas/Pintureria-api/internal/application/dto"
)

// DashboardHandler resumen de inventario para el dashboard (protegido).
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen del inventario
// @Description  Totales, valorización (stock × costo) y productos bajo su
//
//	stock mínimo. El resultado puede venir de caché; se invalida al registrar
//	cualquier transacción.
//
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(summary)
}
