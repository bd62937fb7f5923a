package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockQuantity es el stock disponible de un artículo en una bodega al momento
// de la consulta. Es un snapshot: AsOf es informativo y no se garantiza frescura
// (se vuelve a consultar al cambiar de bodega, no de forma continua).
type StockQuantity struct {
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal // unidades base, nunca negativo
	AsOf        time.Time
}
