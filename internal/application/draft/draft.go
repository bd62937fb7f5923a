package draft

import (
	"sync"
	"time"

	"github.com/bodegapro/movimientos-api/internal/domain/draft"
	"github.com/bodegapro/movimientos-api/internal/domain/entity"
)

// Draft es un movimiento de inventario en construcción: tipo, bodegas, líneas
// y campos de cabecera. Add/Update/Remove no son atómicos de forma individual
// sobre la colección, así que todo acceso se serializa con el mutex del
// borrador (un mutex por borrador en curso; no hace falta bloqueo entre líneas).
type Draft struct {
	mu sync.Mutex

	ID                     string
	Kind                   entity.MovementKind
	OriginWarehouseID      string
	DestinationWarehouseID string
	Reason                 string
	Notes                  string
	Lines                  *draft.Collection
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Lock serializa el acceso al borrador.
func (d *Draft) Lock() { d.mu.Lock() }

// Unlock libera el borrador.
func (d *Draft) Unlock() { d.mu.Unlock() }
