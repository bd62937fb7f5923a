package movement

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bodegapro/movimientos-api/internal/domain"
)

// ToBase convierte una cantidad en presentación a unidades base (servicio de dominio).
// CantidadBase = CantidadPresentacion * Factor. Factor faltante, cero o negativo
// retorna ErrInvalidFactor; el caller debe caer a captura en unidades base.
func ToBase(presentationQty, factor decimal.Decimal) (decimal.Decimal, error) {
	if !factor.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidFactor
	}
	return presentationQty.Mul(factor), nil
}

// ToPresentation convierte unidades base a cantidad en presentación.
// CantidadPresentacion = CantidadBase / Factor.
func ToPresentation(baseQty, factor decimal.Decimal) (decimal.Decimal, error) {
	if !factor.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidFactor
	}
	return baseQty.Div(factor), nil
}

// FormatQuantity formatea una cantidad para mostrar: redondea a 4 decimales y
// quita ceros finales y el punto colgante ("2.5000" -> "2.5", "2.0000" -> "2").
// Es solo cosmético: nunca usar el string formateado en aritmética ni en el
// payload de envío, que viaja con el decimal sin truncar.
func FormatQuantity(q decimal.Decimal) string {
	s := q.Round(4).StringFixed(4)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}
