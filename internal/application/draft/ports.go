package draft

import (
	"context"

	"github.com/bodegapro/movimientos-api/internal/domain/entity"
)

// MovementSubmitter recibe el payload canónico de un movimiento validado y lo
// aplica (persistencia transaccional, descuento/suma de stock). Es colaborador
// externo del motor de borradores.
type MovementSubmitter interface {
	Submit(ctx context.Context, movement *entity.Movement) error
}
