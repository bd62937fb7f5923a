package postgres

import (
	"context"
	"time"

	appdraft "github.com/bodegapro/movimientos-api/internal/application/draft"
	"github.com/bodegapro/movimientos-api/internal/domain"
	"github.com/bodegapro/movimientos-api/internal/domain/entity"
	"github.com/bodegapro/movimientos-api/internal/domain/repository"
)

var _ appdraft.MovementSubmitter = (*MovementSubmitter)(nil)

// MovementSubmitter aplica un movimiento validado de forma transaccional:
// bloquea las filas de stock (SELECT FOR UPDATE), re-verifica suficiencia del
// lado del servidor y persiste cabecera y líneas con Commit o Rollback.
type MovementSubmitter struct {
	tx *TxRunner
}

// NewMovementSubmitter construye el adaptador de envío.
func NewMovementSubmitter(tx *TxRunner) *MovementSubmitter {
	return &MovementSubmitter{tx: tx}
}

// Submit valida cabecera, aplica el efecto sobre stock según el tipo y guarda
// el movimiento, todo en una transacción.
func (s *MovementSubmitter) Submit(ctx context.Context, mov *entity.Movement) error {
	if err := validateHeader(mov); err != nil {
		return err
	}
	now := time.Now()
	return s.tx.Run(ctx, func(movRepo repository.MovementRepository, stockRepo repository.StockRepository) error {
		for _, line := range mov.Lines {
			if err := applyLine(ctx, stockRepo, mov, line, now); err != nil {
				return err
			}
		}
		return movRepo.Create(ctx, mov)
	})
}

func validateHeader(mov *entity.Movement) error {
	if !mov.Kind.Valid() || len(mov.Lines) == 0 {
		return domain.ErrInvalidInput
	}
	switch mov.Kind {
	case entity.KindEntrada, entity.KindAjuste:
		if mov.DestinationWarehouseID == "" {
			return domain.ErrInvalidInput
		}
	case entity.KindSalida:
		if mov.OriginWarehouseID == "" {
			return domain.ErrInvalidInput
		}
	case entity.KindTransferencia:
		if mov.OriginWarehouseID == "" || mov.DestinationWarehouseID == "" ||
			mov.OriginWarehouseID == mov.DestinationWarehouseID {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// applyLine aplica el efecto de una línea sobre stock, con la fila bloqueada.
func applyLine(ctx context.Context, stockRepo repository.StockRepository, mov *entity.Movement, line entity.MovementLine, now time.Time) error {
	if !line.BaseQuantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	switch mov.Kind {
	case entity.KindEntrada:
		stock, err := stockRepo.GetForUpdate(ctx, mov.DestinationWarehouseID, line.ItemID)
		if err != nil {
			return err
		}
		stock.Quantity = stock.Quantity.Add(line.BaseQuantity)
		stock.AsOf = now
		return stockRepo.Upsert(ctx, stock)

	case entity.KindSalida:
		stock, err := stockRepo.GetForUpdate(ctx, mov.OriginWarehouseID, line.ItemID)
		if err != nil {
			return err
		}
		if stock.Quantity.LessThan(line.BaseQuantity) {
			return domain.ErrInsufficientStock
		}
		stock.Quantity = stock.Quantity.Sub(line.BaseQuantity)
		stock.AsOf = now
		return stockRepo.Upsert(ctx, stock)

	case entity.KindTransferencia:
		// Resta en bodega origen y suma en bodega destino, misma transacción.
		origin, err := stockRepo.GetForUpdate(ctx, mov.OriginWarehouseID, line.ItemID)
		if err != nil {
			return err
		}
		if origin.Quantity.LessThan(line.BaseQuantity) {
			return domain.ErrInsufficientStock
		}
		dest, err := stockRepo.GetForUpdate(ctx, mov.DestinationWarehouseID, line.ItemID)
		if err != nil {
			return err
		}
		origin.Quantity = origin.Quantity.Sub(line.BaseQuantity)
		dest.Quantity = dest.Quantity.Add(line.BaseQuantity)
		origin.AsOf = now
		dest.AsOf = now
		if err := stockRepo.Upsert(ctx, origin); err != nil {
			return err
		}
		return stockRepo.Upsert(ctx, dest)

	case entity.KindAjuste:
		// Corrección absoluta: la cantidad de la línea reemplaza la existencia.
		stock, err := stockRepo.GetForUpdate(ctx, mov.DestinationWarehouseID, line.ItemID)
		if err != nil {
			return err
		}
		stock.Quantity = line.BaseQuantity
		stock.AsOf = now
		return stockRepo.Upsert(ctx, stock)
	}
	return domain.ErrInvalidInput
}
