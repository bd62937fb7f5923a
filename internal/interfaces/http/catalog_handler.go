package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bodegapro/movimientos-api/internal/application/catalog"
	"github.com/bodegapro/movimientos-api/internal/application/dto"
)

// CatalogHandler maneja las consultas del catálogo para la capa de selección.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// ListItems godoc
// @Summary      Listar artículos del catálogo
// @Tags         catalog
// @Produce      json
// @Param        search  query  string  false  "Filtro por código o descripción"
// @Param        limit   query  int     false  "Tamaño de página (máx 100)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ItemListResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/catalog/items [get]
func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.ListItems(c.Context(), c.Query("search"), page)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// ListPresentations godoc
// @Summary      Presentaciones seleccionables de un artículo
// @Description  Solo presentaciones con factor de conversión positivo.
// @Tags         catalog
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {array}   dto.PresentationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/items/{id}/presentations [get]
func (h *CatalogHandler) ListPresentations(c *fiber.Ctx) error {
	out, err := h.uc.ListPresentations(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}
