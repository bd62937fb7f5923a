package dto

import "github.com/shopspring/decimal"

// ItemResponse artículo del catálogo tal como lo consume la capa de selección.
type ItemResponse struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Description   string `json:"description"`
	BaseUnitLabel string `json:"base_unit_label"`
}

// PresentationResponse presentación seleccionable de un artículo. Solo se
// exponen presentaciones con factor de conversión positivo.
type PresentationResponse struct {
	ID               string          `json:"id"`
	ItemID           string          `json:"item_id"`
	Name             string          `json:"name"`
	UnitLabel        string          `json:"unit_label"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
}

// ItemListResponse listado paginado de artículos.
type ItemListResponse struct {
	Items  []ItemResponse `json:"items"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}
