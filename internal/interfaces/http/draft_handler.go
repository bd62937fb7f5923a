package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bodegapro/movimientos-api/internal/application/draft"
	"github.com/bodegapro/movimientos-api/internal/application/dto"
)

// DraftHandler maneja las peticiones HTTP de borradores de movimiento.
type DraftHandler struct {
	uc *draft.UseCase
}

// NewDraftHandler construye el handler.
func NewDraftHandler(uc *draft.UseCase) *DraftHandler {
	return &DraftHandler{uc: uc}
}

// Create godoc
// @Summary      Abrir un borrador de movimiento
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDraftRequest  true  "kind (entrada|salida|transferencia|ajuste), bodegas opcionales"
// @Success      201   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movements/drafts [post]
func (h *DraftHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateDraft(in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Vista completa del borrador (líneas, totales, validación)
// @Tags         drafts
// @Produce      json
// @Param        id  path  string  true  "ID del borrador"
// @Success      200  {object}  dto.DraftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/drafts/{id} [get]
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetDraft(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar cabecera del borrador (tipo, bodegas, motivo, notas)
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del borrador"
// @Param        body  body  dto.UpdateDraftRequest  true  "campos a modificar"
// @Success      200   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/drafts/{id} [put]
func (h *DraftHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateDraft(c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// Discard godoc
// @Summary      Descartar un borrador
// @Tags         drafts
// @Param        id  path  string  true  "ID del borrador"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/drafts/{id} [delete]
func (h *DraftHandler) Discard(c *fiber.Ctx) error {
	if err := h.uc.DiscardDraft(c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddLine godoc
// @Summary      Agregar la línea de un artículo al borrador
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del borrador"
// @Param        body  body  dto.AddLineRequest  true  "item_id"
// @Success      201   {object}  dto.DraftResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "artículo duplicado"
// @Router       /api/movements/drafts/{id}/lines [post]
func (h *DraftHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddLineRequest
	if err := c.BodyParser(&in); err != nil || in.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddLine(c.Context(), c.Params("id"), in.ItemID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateLine godoc
// @Summary      Editar cantidad o presentación de una línea
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "ID del borrador"
// @Param        itemId  path  string  true  "ID del artículo"
// @Param        body    body  dto.UpdateLineRequest  true  "patch de la línea"
// @Success      200     {object}  dto.DraftResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/movements/drafts/{id}/lines/{itemId} [put]
func (h *DraftHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.UpdateLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateLine(c.Context(), c.Params("id"), c.Params("itemId"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// RemoveLine godoc
// @Summary      Quitar la línea de un artículo
// @Tags         drafts
// @Produce      json
// @Param        id      path  string  true  "ID del borrador"
// @Param        itemId  path  string  true  "ID del artículo"
// @Success      200     {object}  dto.DraftResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/movements/drafts/{id}/lines/{itemId} [delete]
func (h *DraftHandler) RemoveLine(c *fiber.Ctx) error {
	out, err := h.uc.RemoveLine(c.Params("id"), c.Params("itemId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// RefreshStock godoc
// @Summary      Reintentar la consulta de stock de una línea
// @Description  Para cuando el indicador quedó en "stock desconocido" tras una
// falla del colaborador de existencias.
// @Tags         drafts
// @Param        id      path  string  true  "ID del borrador"
// @Param        itemId  path  string  true  "ID del artículo"
// @Success      202
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/drafts/{id}/lines/{itemId}/refresh-stock [post]
func (h *DraftHandler) RefreshStock(c *fiber.Ctx) error {
	if err := h.uc.RefreshStock(c.Params("id"), c.Params("itemId")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// Validate godoc
// @Summary      Validación agregada del borrador
// @Tags         drafts
// @Produce      json
// @Param        id  path  string  true  "ID del borrador"
// @Success      200  {object}  draft.ValidationResult
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/drafts/{id}/validation [get]
func (h *DraftHandler) Validate(c *fiber.Ctx) error {
	out, err := h.uc.Validate(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Confirmar el movimiento
// @Description  Bloqueado mientras la validación tenga errores; al confirmarse
// el borrador se destruye y el payload canónico va al servicio de registro.
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del borrador"
// @Param        body  body  dto.SubmitDraftRequest  true  "motivo y notas"
// @Success      201   {object}  dto.SubmitDraftResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente al aplicar"
// @Failure      422   {object}  dto.ErrorResponse  "errores de validación"
// @Router       /api/movements/drafts/{id}/submit [post]
func (h *DraftHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Submit(c.Context(), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
