package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicateItem     = errors.New("artículo duplicado en el movimiento")
	ErrUnknownLineItem   = errors.New("línea no encontrada en el movimiento")
	ErrInvalidFactor     = errors.New("factor de conversión inválido")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrDraftNotFound     = errors.New("borrador de movimiento no encontrado")
	ErrNotSubmittable    = errors.New("el movimiento tiene errores de validación")
)
