package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bodegapro/movimientos-api/internal/application/dto"
	"github.com/bodegapro/movimientos-api/internal/domain"
)

// errorResponse mapea errores de dominio a códigos HTTP. Los errores de
// validación de entrada del usuario no pasan por acá: viajan como datos dentro
// de la respuesta del borrador.
func errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrInvalidFactor):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FACTOR", Message: "factor de conversión inválido"})
	case errors.Is(err, domain.ErrDraftNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "DRAFT_NOT_FOUND", Message: "borrador no encontrado"})
	case errors.Is(err, domain.ErrUnknownLineItem):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "LINE_NOT_FOUND", Message: "línea no encontrada en el movimiento"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicateItem):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_ITEM", Message: "el artículo ya está en el movimiento"})
	case errors.Is(err, domain.ErrNotSubmittable):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NOT_SUBMITTABLE", Message: "el movimiento tiene errores de validación"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
