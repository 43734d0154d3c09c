package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-pos/internal/application/usecase"
)

// CatalogHandler almacenes, unidades y categorías.
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Stores godoc
// @Summary      Listar almacenes
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StoreResponse
// @Router       /api/stores [get]
func (h *CatalogHandler) Stores(c *fiber.Ctx) error {
	out, err := h.uc.ListStores(c.UserContext())
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(out)
}

// Units godoc
// @Summary      Listar unidades de medida
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UnitResponse
// @Router       /api/units [get]
func (h *CatalogHandler) Units(c *fiber.Ctx) error {
	out, err := h.uc.ListUnits(c.UserContext())
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(out)
}

// Categories godoc
// @Summary      Listar categorías
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(out)
}
