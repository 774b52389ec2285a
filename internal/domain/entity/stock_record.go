package entity

import (
	"fmt"
	"math"
	"strings"

	"github.com/jhoicas/parts-inventory-api/internal/domain"
)

// StockKey identifica de forma única un StockRecord: parte + bodega + proveedor.
type StockKey struct {
	PartNumber  string
	WarehouseID int
	SupplierID  string
}

// Validate verifica identificadores no vacíos y bodega no negativa.
func (k StockKey) Validate() error {
	if strings.TrimSpace(k.PartNumber) == "" {
		return fmt.Errorf("%w: part_number vacío", domain.ErrInvalidInput)
	}
	if k.WarehouseID < 0 {
		return fmt.Errorf("%w: warehouse_id negativo", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(k.SupplierID) == "" {
		return fmt.Errorf("%w: supplier_id vacío", domain.ErrInvalidInput)
	}
	return nil
}

func (k StockKey) String() string {
	return fmt.Sprintf("%s/%d/%s", k.PartNumber, k.WarehouseID, k.SupplierID)
}

// StockRecord cantidad de una parte que un proveedor mantiene en una bodega.
// Priority menor = mayor precedencia al despachar; no cambia después de creado.
type StockRecord struct {
	PartNumber  string
	WarehouseID int
	SupplierID  string
	Quantity    int64
	Priority    int
}

// Key devuelve la clave única del registro.
func (r StockRecord) Key() StockKey {
	return StockKey{PartNumber: r.PartNumber, WarehouseID: r.WarehouseID, SupplierID: r.SupplierID}
}

// Candidate proveedor elegible para una asignación (parte+bodega), en orden de prioridad.
type Candidate struct {
	SupplierID string
	Quantity   int64
}

// ValidateQuantity rechaza cantidades negativas (deltas o valores absolutos).
func ValidateQuantity(q int64) error {
	if q < 0 {
		return fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	}
	return nil
}

// AddQuantities suma dos cantidades no negativas; ok=false si el resultado no cabe en int64.
func AddQuantities(a, b int64) (sum int64, ok bool) {
	if b > math.MaxInt64-a {
		return 0, false
	}
	return a + b, true
}
