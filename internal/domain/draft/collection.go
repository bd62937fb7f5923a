package draft

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bodegapro/movimientos-api/internal/domain"
	"github.com/bodegapro/movimientos-api/internal/domain/entity"
	"github.com/bodegapro/movimientos-api/internal/domain/movement"
)

// Códigos de validación (errores y advertencias de entrada del usuario; viajan
// como datos en ValidationResult, nunca como error de Go).
const (
	CodeEmptyMovement       = "EMPTY_MOVEMENT"
	CodeNonPositiveQuantity = "NON_POSITIVE_QUANTITY"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeExactDepletion      = "EXACT_DEPLETION"
)

// Issue es un error o advertencia de validación asociado a una línea (ItemID
// vacío = nivel de colección).
type Issue struct {
	ItemID  string `json:"item_id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult agrega los errores y advertencias de todas las líneas.
// IsValid es true solo sin errores; el envío debe bloquearse en caso contrario.
type ValidationResult struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
	IsValid  bool    `json:"is_valid"`
}

// Collection es la lista ordenada de líneas de un movimiento en curso, única
// por ItemID. Es dueña de la validez agregada y de los totales. No sincroniza:
// el dueño del borrador serializa el acceso (un mutex por borrador).
type Collection struct {
	lines []*LineItem
	index map[string]*LineItem
}

// NewCollection crea una colección vacía.
func NewCollection() *Collection {
	return &Collection{index: make(map[string]*LineItem)}
}

// Add crea la línea para un artículo no presente. Selección duplicada retorna
// ErrDuplicateItem y deja la colección con exactamente una línea del artículo.
func (c *Collection) Add(item entity.Item) (*LineItem, error) {
	if _, ok := c.index[item.ID]; ok {
		return nil, domain.ErrDuplicateItem
	}
	li := NewLineItem(item)
	c.lines = append(c.lines, li)
	c.index[item.ID] = li
	return li, nil
}

// Get devuelve la línea de un artículo; ErrUnknownLineItem si no existe.
func (c *Collection) Get(itemID string) (*LineItem, error) {
	li, ok := c.index[itemID]
	if !ok {
		return nil, domain.ErrUnknownLineItem
	}
	return li, nil
}

// Remove elimina la línea de un artículo; ErrUnknownLineItem si no existe.
func (c *Collection) Remove(itemID string) error {
	if _, ok := c.index[itemID]; !ok {
		return domain.ErrUnknownLineItem
	}
	delete(c.index, itemID)
	for i, li := range c.lines {
		if li.ItemID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
	return nil
}

// Lines devuelve las líneas en orden de selección.
func (c *Collection) Lines() []*LineItem {
	return c.lines
}

// Len devuelve la cantidad de líneas.
func (c *Collection) Len() int {
	return len(c.lines)
}

// Totals suma las cantidades base de todas las líneas (solo para mostrar).
func (c *Collection) Totals() decimal.Decimal {
	total := decimal.Zero
	for _, li := range c.lines {
		total = total.Add(li.BaseQuantity)
	}
	return total
}

// Reclassify re-deriva el estado de todas las líneas (cambio de tipo o bodega).
func (c *Collection) Reclassify(kind entity.MovementKind) {
	for _, li := range c.lines {
		li.Reclassify(kind)
	}
}

// Validate corre la validación cruzada de la colección para un tipo de movimiento:
//   - error por línea con cantidad base <= 0
//   - error por línea en salida/transferencia con cantidad > stock disponible
//   - advertencia por línea en salida/transferencia que agota exactamente el stock
//   - error de colección si no hay líneas
func (c *Collection) Validate(kind entity.MovementKind) ValidationResult {
	res := ValidationResult{Errors: []Issue{}, Warnings: []Issue{}}

	if len(c.lines) == 0 {
		res.Errors = append(res.Errors, Issue{
			Code:    CodeEmptyMovement,
			Message: "el movimiento debe tener al menos una línea",
		})
	}

	for _, li := range c.lines {
		if !li.BaseQuantity.GreaterThan(decimal.Zero) {
			res.Errors = append(res.Errors, Issue{
				ItemID:  li.ItemID,
				Code:    CodeNonPositiveQuantity,
				Message: fmt.Sprintf("%s: la cantidad debe ser mayor que cero", li.ItemCode),
			})
			continue
		}
		if kind.RequiresStockCheck() && li.StockOnHand != nil {
			switch {
			case li.BaseQuantity.GreaterThan(*li.StockOnHand):
				res.Errors = append(res.Errors, Issue{
					ItemID: li.ItemID,
					Code:   CodeInsufficientStock,
					Message: fmt.Sprintf("%s: stock insuficiente (disponible %s %s)",
						li.ItemCode, movement.FormatQuantity(*li.StockOnHand), li.BaseUnitLabel),
				})
			case li.BaseQuantity.Equal(*li.StockOnHand):
				res.Warnings = append(res.Warnings, Issue{
					ItemID: li.ItemID,
					Code:   CodeExactDepletion,
					Message: fmt.Sprintf("%s: la salida agota exactamente el stock disponible",
						li.ItemCode),
				})
			}
		}
	}

	res.IsValid = len(res.Errors) == 0
	return res
}
