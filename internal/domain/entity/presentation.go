package entity

import "github.com/shopspring/decimal"

// Presentation representa una presentación de empaque de un artículo
// (ej. "Caja x 24"): ConversionFactor unidades base por cada unidad de presentación.
// Una presentación con factor <= 0 no es seleccionable (política del catálogo).
type Presentation struct {
	ID               string
	ItemID           string
	Name             string
	UnitLabel        string
	ConversionFactor decimal.Decimal
}

// Selectable indica si la presentación puede usarse para capturar cantidades.
func (p Presentation) Selectable() bool {
	return p.ConversionFactor.GreaterThan(decimal.Zero)
}
