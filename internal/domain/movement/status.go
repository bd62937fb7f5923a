package movement

import (
	"github.com/shopspring/decimal"

	"github.com/bodegapro/movimientos-api/internal/domain/entity"
)

// Status es el estado de suficiencia de una línea de movimiento.
type Status string

// Estados posibles de una línea.
const (
	StatusEmpty        Status = "empty"        // sin cantidad, o stock sin resolver en tipos que lo exigen
	StatusNormal       Status = "normal"       // cantidad válida dentro del disponible
	StatusAtLimit      Status = "at_limit"     // la cantidad agota exactamente el disponible
	StatusInsufficient Status = "insufficient" // la cantidad excede el disponible
)

// Classification es el resultado del clasificador de stock para una línea.
type Classification struct {
	Status Status
	// Remaining = stock - cantidad, solo para salida/transferencia con stock
	// resuelto. Sin clamp: puede ser negativo cuando el estado es insufficient
	// (la UI decide si lo muestra en cero o como magnitud del exceso).
	Remaining *decimal.Decimal
}

// Classify deriva el estado de una línea a partir del tipo de movimiento, el stock
// disponible (nil = bodega sin resolver) y la cantidad en unidades base.
// Es función pura de sus tres entradas; debe re-derivarse en cada cambio de
// cantidad, presentación, bodega o tipo de movimiento.
func Classify(kind entity.MovementKind, stockOnHand *decimal.Decimal, baseQty decimal.Decimal) Classification {
	// Entrada y ajuste agregan o sobreescriben stock: no se evalúa suficiencia.
	if !kind.RequiresStockCheck() {
		if baseQty.GreaterThan(decimal.Zero) {
			return Classification{Status: StatusNormal}
		}
		return Classification{Status: StatusEmpty}
	}

	// Salida/transferencia sin bodega resuelta: cantidad provisional.
	if stockOnHand == nil {
		return Classification{Status: StatusEmpty}
	}

	if !baseQty.GreaterThan(decimal.Zero) {
		return Classification{Status: StatusEmpty}
	}

	remaining := stockOnHand.Sub(baseQty)
	c := Classification{Remaining: &remaining}
	switch {
	case baseQty.GreaterThan(*stockOnHand):
		c.Status = StatusInsufficient
	case baseQty.Equal(*stockOnHand):
		c.Status = StatusAtLimit
	default:
		c.Status = StatusNormal
	}
	return c
}

// RelevantWarehouse determina qué bodega es la autoritativa para consultar stock
// según el tipo de movimiento: entrada/ajuste operan sobre la bodega destino,
// salida/transferencia sobre la bodega origen. Vacío = sin bodega aplicable aún.
func RelevantWarehouse(kind entity.MovementKind, originID, destinationID string) string {
	if kind.RequiresStockCheck() {
		return originID
	}
	return destinationID
}
