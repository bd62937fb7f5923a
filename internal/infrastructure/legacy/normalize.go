package legacy

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bodegapro/movimientos-api/internal/domain/entity"
)

// Grafías aceptadas por campo, en orden de preferencia. El backend heredado ha
// respondido históricamente con cualquiera de ellas según la pantalla que lo
// alimentó.
var (
	itemIDKeys     = []string{"Item_Id", "item_id", "id"}
	itemCodeKeys   = []string{"Item_Codigo", "codigo", "code"}
	itemDescKeys   = []string{"Item_Nombre", "Item_Descripcion", "nombre", "descripcion"}
	itemUnitKeys   = []string{"Item_UnidadBase", "unidad_base", "unidad"}
	presIDKeys     = []string{"Presentacion_Id", "presentacion_id", "id"}
	presNameKeys   = []string{"Presentacion_Nombre", "nombre"}
	presUnitKeys   = []string{"Presentacion_Unidad", "unidad"}
	presFactorKeys = []string{"Factor_Conversion", "factor_conversion", "factor"}
)

// normalizeItem mapea una fila heredada al Item canónico.
func normalizeItem(row map[string]json.RawMessage) *entity.Item {
	return &entity.Item{
		ID:            firstString(row, itemIDKeys...),
		Code:          firstString(row, itemCodeKeys...),
		Description:   firstString(row, itemDescKeys...),
		BaseUnitLabel: firstString(row, itemUnitKeys...),
	}
}

// normalizePresentation mapea una fila heredada a la Presentation canónica.
// Un factor ausente o no numérico queda en cero, que la hace no seleccionable.
func normalizePresentation(row map[string]json.RawMessage, itemID string) *entity.Presentation {
	return &entity.Presentation{
		ID:               firstString(row, presIDKeys...),
		ItemID:           itemID,
		Name:             firstString(row, presNameKeys...),
		UnitLabel:        firstString(row, presUnitKeys...),
		ConversionFactor: firstDecimal(row, presFactorKeys...),
	}
}

// firstString devuelve el primer campo presente y no vacío entre las grafías
// dadas. Acepta strings y números (el backend serializa IDs de ambas formas).
func firstString(row map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := row[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil && n.String() != "" {
			return n.String()
		}
	}
	return ""
}

// firstDecimal devuelve el primer campo numérico presente entre las grafías
// dadas. Acepta números y números serializados como string.
func firstDecimal(row map[string]json.RawMessage, keys ...string) decimal.Decimal {
	for _, key := range keys {
		raw, ok := row[key]
		if !ok {
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			if d, err := decimal.NewFromString(n.String()); err == nil {
				return d
			}
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			if d, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
				return d
			}
		}
	}
	return decimal.Zero
}
