package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bodegapro/movimientos-api/internal/domain/entity"
	"github.com/bodegapro/movimientos-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo persiste movimientos confirmados sobre PostgreSQL (usable con
// pool o tx). Cabecera en movements, líneas en movement_lines.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste la cabecera del movimiento y sus líneas.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	origin := (*string)(nil)
	if movement.OriginWarehouseID != "" {
		origin = &movement.OriginWarehouseID
	}
	destination := (*string)(nil)
	if movement.DestinationWarehouseID != "" {
		destination = &movement.DestinationWarehouseID
	}
	headerQuery := `
		INSERT INTO movements (id, kind, origin_warehouse_id, destination_warehouse_id, reason, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, headerQuery,
		movement.ID, string(movement.Kind), origin, destination,
		movement.Reason, movement.Notes, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}

	lineQuery := `
		INSERT INTO movement_lines (id, movement_id, item_id, base_quantity, presentation_id, presentation_quantity)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, line := range movement.Lines {
		_, err := r.q.Exec(ctx, lineQuery,
			uuid.New().String(), movement.ID, line.ItemID,
			line.BaseQuantity, line.PresentationID, line.PresentationQuantity,
		)
		if err != nil {
			return fmt.Errorf("create movement line: %w", err)
		}
	}
	return nil
}
