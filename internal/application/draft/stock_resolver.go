package draft

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bodegapro/movimientos-api/internal/domain"
	"github.com/bodegapro/movimientos-api/internal/domain/draft"
	"github.com/bodegapro/movimientos-api/internal/domain/movement"
	"github.com/bodegapro/movimientos-api/internal/domain/repository"
	"github.com/bodegapro/movimientos-api/pkg/logger"
)

// StockResolver resuelve qué bodega es autoritativa para una línea según el
// tipo de movimiento y consulta su existencia en el colaborador de stock.
//
// Las consultas son asíncronas y pueden solaparse (ej. el usuario cambia de
// bodega dos veces seguidas). Cada consulta lleva el número de secuencia de la
// línea al momento de emitirse; al resolver, el resultado se descarta si ya se
// emitió una secuencia más nueva. No se cancelan consultas en vuelo, solo se
// descartan sus resultados.
type StockResolver struct {
	lookup  repository.StockLookup
	timeout time.Duration
	log     *logger.Logger
}

// NewStockResolver construye el resolver. timeout acota cada consulta; al
// vencer se trata como falla recuperable (cifra obsoleta, no bloquea la UI).
func NewStockResolver(lookup repository.StockLookup, timeout time.Duration, log *logger.Logger) *StockResolver {
	return &StockResolver{lookup: lookup, timeout: timeout, log: log}
}

// Refresh emite una nueva consulta de stock para la línea. El caller debe
// tener tomado el mutex del borrador (la secuencia se emite bajo ese lock).
// Sin bodega aplicable no se consulta nada: stock queda en nil ("sin bodega
// seleccionada", que no es un error).
func (r *StockResolver) Refresh(d *Draft, li *draft.LineItem) {
	warehouseID := movement.RelevantWarehouse(d.Kind, d.OriginWarehouseID, d.DestinationWarehouseID)
	if warehouseID == "" {
		// Invalidar sin consultar: la secuencia avanza para que cualquier
		// consulta en vuelo de la bodega anterior se descarte al resolver.
		li.NextStockSeq()
		li.ApplyStock(nil)
		li.Reclassify(d.Kind)
		return
	}
	seq := li.NextStockSeq()
	go r.fetch(d, li, warehouseID, seq)
}

// fetch consulta la existencia y aplica el resultado bajo el mutex del
// borrador, solo si la secuencia sigue siendo la más reciente de la línea.
func (r *StockResolver) fetch(d *Draft, li *draft.LineItem, warehouseID string, seq uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	sq, err := r.lookup.GetStock(ctx, warehouseID, li.ItemID)

	d.Lock()
	defer d.Unlock()

	if li.CurrentStockSeq() != seq {
		// Llegó después que una consulta más nueva: descartar.
		r.log.Debug().
			Str("item_id", li.ItemID).
			Uint64("seq", seq).
			Uint64("current", li.CurrentStockSeq()).
			Msg("respuesta de stock obsoleta descartada")
		return
	}

	switch {
	case err == nil:
		q := sq.Quantity
		li.ApplyStock(&q)
	case errors.Is(err, domain.ErrNotFound):
		// Sin fila de stock = existencia cero, no un error.
		zero := decimal.Zero
		li.ApplyStock(&zero)
	default:
		// Falla recuperable: conservar el valor anterior (o nil) y marcar la
		// cifra como desconocida; se reintenta en el próximo cambio o con un
		// refresh explícito del usuario.
		li.MarkStockStale()
		r.log.Warn().Err(err).
			Str("item_id", li.ItemID).
			Str("warehouse_id", warehouseID).
			Msg("consulta de stock fallida")
	}
	li.Reclassify(d.Kind)
}
