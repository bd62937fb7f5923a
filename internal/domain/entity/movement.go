package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind clasifica un movimiento de inventario.
type MovementKind string

// Tipos de movimiento.
const (
	KindEntrada       MovementKind = "entrada"       // ingreso de stock a bodega destino
	KindSalida        MovementKind = "salida"        // egreso de stock desde bodega origen
	KindTransferencia MovementKind = "transferencia" // origen -> destino
	KindAjuste        MovementKind = "ajuste"        // corrección absoluta en bodega destino
)

// Valid indica si el tipo es uno de los cuatro conocidos.
func (k MovementKind) Valid() bool {
	switch k {
	case KindEntrada, KindSalida, KindTransferencia, KindAjuste:
		return true
	}
	return false
}

// RequiresStockCheck indica si el tipo descuenta stock y por lo tanto exige
// validar suficiencia contra el disponible (salida y transferencia).
func (k MovementKind) RequiresStockCheck() bool {
	return k == KindSalida || k == KindTransferencia
}

// MovementLine es una línea del payload canónico de envío: cantidad en unidades
// base sin truncar, más metadatos de presentación si la captura fue por presentación.
type MovementLine struct {
	ItemID               string
	BaseQuantity         decimal.Decimal
	PresentationID       *string
	PresentationQuantity *decimal.Decimal
}

// Movement es el movimiento canónico que recibe el servicio de registro.
type Movement struct {
	ID                     string
	Kind                   MovementKind
	OriginWarehouseID      string
	DestinationWarehouseID string
	Reason                 string
	Notes                  string
	Lines                  []MovementLine
	CreatedAt              time.Time
}
