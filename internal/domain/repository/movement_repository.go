package repository

import (
	"context"

	"github.com/bodegapro/movimientos-api/internal/domain/entity"
)

// MovementRepository persiste movimientos de inventario confirmados.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
}
