package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/application/inventory"
)

// InventoryHandler maneja entradas de stock y reportes de inventario (protegido).
type InventoryHandler struct {
	stock   *inventory.StockUseCase
	reports *inventory.ReportUseCase
	log     zerolog.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *inventory.StockUseCase, reports *inventory.ReportUseCase, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{stock: stock, reports: reports, log: log}
}

// AddStock godoc
// @Summary      Agregar stock
// @Description  Suma quantity al producto en el almacén (crea la fila si no existe) y registra
//
//	un movimiento de entrada. Todo en una transacción.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddStockRequest  true  "product_id, store_id, quantity (> 0)"
// @Success      201   {object}  dto.AddStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [post]
func (h *InventoryHandler) AddStock(c *fiber.Ctx) error {
	var in dto.AddStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.StoreID != "" && !CanAccessStore(c, in.StoreID) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "sin acceso a este almacén"})
	}
	rec, n := newOutcomes(h.log)
	out, err := h.stock.AddStock(c.UserContext(), in, GetUserID(c), n)
	if err != nil {
		return respondError(c, err, rec.Outcomes())
	}
	out.Outcomes = rec.Outcomes()
	return c.Status(fiber.StatusCreated).JSON(out)
}

// LowStock godoc
// @Summary      Productos bajo stock mínimo
// @Description  Incluye la cantidad sugerida para llegar al stock máximo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  false  "Filtrar por almacén (UUID). Vacío = todos."
// @Success      200  {array}   dto.LowStockItemResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.reports.LowStock(c.UserContext(), c.Query("store_id"))
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Ledger de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        page        query  int     false  "página (1-based)"
// @Param        page_size   query  int     false  "tamaño de página"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de paginación inválidos"})
	}
	out, err := h.reports.Movements(c.UserContext(), c.Query("product_id"), page)
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(out)
}
