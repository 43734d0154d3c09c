package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-pos/internal/application/usecase"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// SalesHandler reportes de ventas del tablero.
type SalesHandler struct {
	uc *usecase.SalesUseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc *usecase.SalesUseCase) *SalesHandler {
	return &SalesHandler{uc: uc}
}

// TopProducts godoc
// @Summary      Productos más vendidos
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        range     query  string  false  "daily | weekly | monthly (default daily)"
// @Param        store_id  query  string  false  "Filtrar por almacén. Vacío = todos."
// @Success      200  {object}  dto.TopSellingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/top-products [get]
func (h *SalesHandler) TopProducts(c *fiber.Ctx) error {
	out, err := h.uc.TopSellingProducts(c.UserContext(), c.Query("range", entity.RangeDaily), c.Query("store_id"))
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de ventas del período
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        range     query  string  false  "daily | weekly | monthly (default daily)"
// @Param        store_id  query  string  false  "Filtrar por almacén. Vacío = todos."
// @Success      200  {object}  dto.SalesSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/summary [get]
func (h *SalesHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext(), c.Query("range", entity.RangeDaily), c.Query("store_id"))
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(out)
}
