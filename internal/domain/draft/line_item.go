package draft

import (
	"github.com/shopspring/decimal"

	"github.com/bodegapro/movimientos-api/internal/domain"
	"github.com/bodegapro/movimientos-api/internal/domain/entity"
	"github.com/bodegapro/movimientos-api/internal/domain/movement"
)

// LineItem es una línea de un movimiento en curso: un artículo seleccionado, su
// presentación opcional, la cantidad en el dominio que el usuario edita y la
// cantidad base canónica derivada. Los datos del artículo se copian al
// seleccionarlo y son inmutables durante la vida de la línea.
//
// Invariante: en cada instante exactamente uno de PresentationQuantity /
// BaseQuantity es la fuente de verdad (el último campo editado); el otro es un
// eco derivado vía el factor de conversión de la presentación activa.
type LineItem struct {
	ItemID          string
	ItemCode        string
	ItemDescription string
	BaseUnitLabel   string

	// Presentation activa; nil = captura directa en unidades base.
	Presentation *entity.Presentation
	// PresentationQuantity cantidad capturada en presentación (nil sin presentación).
	PresentationQuantity *decimal.Decimal
	// BaseQuantity cantidad canónica en unidades base; es la que viaja al envío.
	BaseQuantity decimal.Decimal

	// StockOnHand último stock resuelto; nil = sin bodega aplicable todavía.
	StockOnHand *decimal.Decimal
	// StockStale true cuando la última consulta de stock falló y la cifra
	// mostrada puede estar desactualizada.
	StockStale bool

	Status    movement.Status
	Remaining *decimal.Decimal

	// stockSeq numera las consultas de stock emitidas para esta línea; una
	// respuesta solo se aplica si su secuencia sigue siendo la más reciente.
	stockSeq uint64
}

// NewLineItem crea la línea para un artículo recién seleccionado: cantidad 0,
// sin presentación, stock sin resolver.
func NewLineItem(item entity.Item) *LineItem {
	return &LineItem{
		ItemID:          item.ID,
		ItemCode:        item.Code,
		ItemDescription: item.Description,
		BaseUnitLabel:   item.BaseUnitLabel,
		BaseQuantity:    decimal.Zero,
		Status:          movement.StatusEmpty,
	}
}

// SetBaseQuantity fija la cantidad base como fuente de verdad. Si hay
// presentación activa, la cantidad en presentación se re-deriva como eco.
func (li *LineItem) SetBaseQuantity(q decimal.Decimal) {
	li.BaseQuantity = q
	if li.Presentation != nil {
		if pq, err := movement.ToPresentation(q, li.Presentation.ConversionFactor); err == nil {
			li.PresentationQuantity = &pq
		}
	}
}

// SetPresentationQuantity fija la cantidad en presentación como fuente de
// verdad y deriva la cantidad base canónica. Requiere presentación activa.
func (li *LineItem) SetPresentationQuantity(q decimal.Decimal) error {
	if li.Presentation == nil {
		return domain.ErrInvalidInput
	}
	base, err := movement.ToBase(q, li.Presentation.ConversionFactor)
	if err != nil {
		return err
	}
	li.PresentationQuantity = &q
	li.BaseQuantity = base
	return nil
}

// SetPresentation cambia la presentación activa. nil vuelve a captura en
// unidades base. Una presentación con factor no positivo nunca es seleccionable
// y retorna ErrInvalidFactor. La cantidad base se conserva como fuente de
// verdad y el eco en presentación se re-deriva con el nuevo factor.
func (li *LineItem) SetPresentation(p *entity.Presentation) error {
	if p == nil {
		li.Presentation = nil
		li.PresentationQuantity = nil
		return nil
	}
	if !p.Selectable() {
		return domain.ErrInvalidFactor
	}
	li.Presentation = p
	pq, err := movement.ToPresentation(li.BaseQuantity, p.ConversionFactor)
	if err != nil {
		return err
	}
	li.PresentationQuantity = &pq
	return nil
}

// ApplyStock registra el resultado de una consulta de stock.
func (li *LineItem) ApplyStock(q *decimal.Decimal) {
	li.StockOnHand = q
	li.StockStale = false
}

// MarkStockStale marca la cifra de stock como desconocida/desactualizada tras
// una consulta fallida, conservando el valor anterior (o nil).
func (li *LineItem) MarkStockStale() {
	li.StockStale = true
}

// Reclassify re-deriva el estado de la línea. Debe invocarse tras cada cambio
// de cantidad, presentación, bodega o tipo de movimiento.
func (li *LineItem) Reclassify(kind entity.MovementKind) {
	c := movement.Classify(kind, li.StockOnHand, li.BaseQuantity)
	li.Status = c.Status
	li.Remaining = c.Remaining
}

// NextStockSeq emite el número de secuencia para una nueva consulta de stock.
func (li *LineItem) NextStockSeq() uint64 {
	li.stockSeq++
	return li.stockSeq
}

// CurrentStockSeq devuelve la última secuencia emitida.
func (li *LineItem) CurrentStockSeq() uint64 {
	return li.stockSeq
}
