package draft

import (
	"github.com/shopspring/decimal"

	"github.com/bodegapro/movimientos-api/internal/application/dto"
	"github.com/bodegapro/movimientos-api/internal/domain/draft"
	"github.com/bodegapro/movimientos-api/internal/domain/movement"
)

// toDraftResponse arma la vista del borrador para la UI. El caller debe tener
// tomado el mutex del borrador (las líneas se leen como snapshot consistente).
func (u *UseCase) toDraftResponse(d *Draft) *dto.DraftResponse {
	lines := make([]dto.LineItemResponse, 0, d.Lines.Len())
	for _, li := range d.Lines.Lines() {
		lines = append(lines, toLineItemResponse(li))
	}
	validation := d.Lines.Validate(d.Kind)
	total := d.Lines.Totals()
	return &dto.DraftResponse{
		ID:                     d.ID,
		Kind:                   string(d.Kind),
		OriginWarehouseID:      d.OriginWarehouseID,
		DestinationWarehouseID: d.DestinationWarehouseID,
		Reason:                 d.Reason,
		Notes:                  d.Notes,
		Lines:                  lines,
		Total:                  total,
		TotalDisplay:           movement.FormatQuantity(total),
		Validation:             validation,
		IsSubmittable:          validation.IsValid,
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}
}

func toLineItemResponse(li *draft.LineItem) dto.LineItemResponse {
	out := dto.LineItemResponse{
		ItemID:              li.ItemID,
		ItemCode:            li.ItemCode,
		ItemDescription:     li.ItemDescription,
		BaseUnitLabel:       li.BaseUnitLabel,
		BaseQuantity:        li.BaseQuantity,
		BaseQuantityDisplay: movement.FormatQuantity(li.BaseQuantity),
		StockUnknown:        li.StockStale,
		Status:              string(li.Status),
	}
	if li.Presentation != nil {
		p := li.Presentation
		out.PresentationID = &p.ID
		out.PresentationName = &p.Name
		out.PresentationUnitLabel = &p.UnitLabel
		factor := p.ConversionFactor
		out.ConversionFactor = &factor
	}
	if li.PresentationQuantity != nil {
		q := *li.PresentationQuantity
		out.PresentationQuantity = &q
		display := movement.FormatQuantity(q)
		out.PresentationQuantityDisplay = &display
	}
	if li.StockOnHand != nil {
		s := *li.StockOnHand
		out.StockOnHand = &s
		display := movement.FormatQuantity(s)
		out.StockOnHandDisplay = &display
	}
	if li.Remaining != nil {
		r := *li.Remaining
		out.Remaining = &r
		// La cifra "quedará" se muestra acotada a cero; el estado insufficient
		// ya señala el exceso.
		clamped := r
		if clamped.IsNegative() {
			clamped = decimal.Zero
		}
		display := movement.FormatQuantity(clamped)
		out.RemainingDisplay = &display
	}
	return out
}
