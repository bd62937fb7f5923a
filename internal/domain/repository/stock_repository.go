package repository

import (
	"context"

	"github.com/bodegapro/movimientos-api/internal/domain/entity"
)

// StockLookup define el puerto de consulta de existencias para una pareja
// (bodega, artículo). Sin registro de stock retorna domain.ErrNotFound; el
// resolver lo interpreta como cantidad cero (la ausencia de fila significa
// stock cero, no un error).
type StockLookup interface {
	GetStock(ctx context.Context, warehouseID, itemID string) (*entity.StockQuantity, error)
}

// StockRepository define el puerto transaccional de stock usado al aplicar un
// movimiento: lectura con bloqueo de fila y upsert de la nueva cantidad.
type StockRepository interface {
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); sin fila devuelve
	// cantidad cero para la pareja solicitada.
	GetForUpdate(ctx context.Context, warehouseID, itemID string) (*entity.StockQuantity, error)
	Upsert(ctx context.Context, stock *entity.StockQuantity) error
}
