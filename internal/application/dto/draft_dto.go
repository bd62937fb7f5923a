package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bodegapro/movimientos-api/internal/domain/draft"
)

// CreateDraftRequest body para POST /api/movements/drafts.
type CreateDraftRequest struct {
	Kind                   string `json:"kind"`
	OriginWarehouseID      string `json:"origin_warehouse_id,omitempty"`
	DestinationWarehouseID string `json:"destination_warehouse_id,omitempty"`
}

// UpdateDraftRequest body para PUT de la cabecera del borrador. Campos nil no
// se modifican; cambiar tipo o bodega re-resuelve el stock de todas las líneas.
type UpdateDraftRequest struct {
	Kind                   *string `json:"kind,omitempty"`
	OriginWarehouseID      *string `json:"origin_warehouse_id,omitempty"`
	DestinationWarehouseID *string `json:"destination_warehouse_id,omitempty"`
	Reason                 *string `json:"reason,omitempty"`
	Notes                  *string `json:"notes,omitempty"`
}

// AddLineRequest body para agregar una línea al borrador.
type AddLineRequest struct {
	ItemID string `json:"item_id"`
}

// UpdateLineRequest patch de cantidad/presentación de una línea. Campos nil no
// se modifican. PresentationID apuntando a cadena vacía vuelve a captura en
// unidades base.
type UpdateLineRequest struct {
	PresentationID       *string          `json:"presentation_id,omitempty"`
	PresentationQuantity *decimal.Decimal `json:"presentation_quantity,omitempty"`
	BaseQuantity         *decimal.Decimal `json:"base_quantity,omitempty"`
}

// SubmitDraftRequest campos de cabecera al confirmar el movimiento.
type SubmitDraftRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes,omitempty"`
}

// SubmitDraftResponse resultado del envío.
type SubmitDraftResponse struct {
	MovementID string `json:"movement_id"`
}

// LineItemResponse vista de una línea del borrador. Los campos *_display van
// formateados para mostrar (hasta 4 decimales, sin ceros finales); los campos
// numéricos conservan el valor sin truncar.
type LineItemResponse struct {
	ItemID          string `json:"item_id"`
	ItemCode        string `json:"item_code"`
	ItemDescription string `json:"item_description"`
	BaseUnitLabel   string `json:"base_unit_label"`

	PresentationID        *string          `json:"presentation_id,omitempty"`
	PresentationName      *string          `json:"presentation_name,omitempty"`
	PresentationUnitLabel *string          `json:"presentation_unit_label,omitempty"`
	ConversionFactor      *decimal.Decimal `json:"conversion_factor,omitempty"`

	PresentationQuantity        *decimal.Decimal `json:"presentation_quantity,omitempty"`
	PresentationQuantityDisplay *string          `json:"presentation_quantity_display,omitempty"`
	BaseQuantity                decimal.Decimal  `json:"base_quantity"`
	BaseQuantityDisplay         string           `json:"base_quantity_display"`

	StockOnHand        *decimal.Decimal `json:"stock_on_hand,omitempty"`
	StockOnHandDisplay *string          `json:"stock_on_hand_display,omitempty"`
	StockUnknown       bool             `json:"stock_unknown"`

	Status string `json:"status"`
	// Remaining = disponible - cantidad, sin clamp (puede ser negativo cuando
	// el estado es insufficient). RemainingDisplay va acotado a cero.
	Remaining        *decimal.Decimal `json:"remaining,omitempty"`
	RemainingDisplay *string          `json:"remaining_display,omitempty"`
}

// DraftResponse vista completa del borrador para la UI: líneas, totales,
// validación agregada y el semáforo de envío.
type DraftResponse struct {
	ID                     string                 `json:"id"`
	Kind                   string                 `json:"kind"`
	OriginWarehouseID      string                 `json:"origin_warehouse_id,omitempty"`
	DestinationWarehouseID string                 `json:"destination_warehouse_id,omitempty"`
	Reason                 string                 `json:"reason,omitempty"`
	Notes                  string                 `json:"notes,omitempty"`
	Lines                  []LineItemResponse     `json:"lines"`
	Total                  decimal.Decimal        `json:"total"`
	TotalDisplay           string                 `json:"total_display"`
	Validation             draft.ValidationResult `json:"validation"`
	IsSubmittable          bool                   `json:"is_submittable"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
}
