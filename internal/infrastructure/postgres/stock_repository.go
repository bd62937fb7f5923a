package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bodegapro/movimientos-api/internal/domain"
	"github.com/bodegapro/movimientos-api/internal/domain/entity"
	"github.com/bodegapro/movimientos-api/internal/domain/repository"
)

var _ repository.StockLookup = (*StockRepo)(nil)
var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de consulta y escritura de stock sobre PostgreSQL
// (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// GetStock obtiene la existencia de un artículo en una bodega. Sin fila
// retorna domain.ErrNotFound (el resolver lo interpreta como cantidad cero).
func (r *StockRepo) GetStock(ctx context.Context, warehouseID, itemID string) (*entity.StockQuantity, error) {
	query := `
		SELECT item_id, warehouse_id, quantity, updated_at
		FROM stock WHERE warehouse_id = $1 AND item_id = $2`
	var s entity.StockQuantity
	err := r.q.QueryRow(ctx, query, warehouseID, itemID).Scan(
		&s.ItemID, &s.WarehouseID, &s.Quantity, &s.AsOf,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene la existencia y bloquea la fila (SELECT FOR UPDATE).
// Sin fila devuelve cantidad cero para la pareja solicitada.
func (r *StockRepo) GetForUpdate(ctx context.Context, warehouseID, itemID string) (*entity.StockQuantity, error) {
	query := `
		SELECT item_id, warehouse_id, quantity, updated_at
		FROM stock WHERE warehouse_id = $1 AND item_id = $2
		FOR UPDATE`
	var s entity.StockQuantity
	err := r.q.QueryRow(ctx, query, warehouseID, itemID).Scan(
		&s.ItemID, &s.WarehouseID, &s.Quantity, &s.AsOf,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockQuantity{
				ItemID:      itemID,
				WarehouseID: warehouseID,
				Quantity:    decimal.Zero,
				AsOf:        time.Now(),
			}, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por artículo y bodega).
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.StockQuantity) error {
	query := `
		INSERT INTO stock (item_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, stock.ItemID, stock.WarehouseID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}
