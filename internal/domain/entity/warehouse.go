package entity

// Warehouse representa una bodega donde se almacena inventario.
type Warehouse struct {
	ID      string
	Name    string
	Address string
}
