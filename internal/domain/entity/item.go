package entity

// Item representa un artículo del catálogo. Inmutable desde este subsistema;
// el servicio de catálogo es el dueño del dato.
type Item struct {
	ID            string
	Code          string
	Description   string
	BaseUnitLabel string // unidad base de inventario (kg, unidad, litro, ...)
}
