package entity

// Allocation resultado de despachar una unidad: proveedor elegido y existencia restante.
type Allocation struct {
	PartNumber        string
	WarehouseID       int
	SupplierID        string
	RemainingQuantity int64
}
