package repository

import (
	"context"

	"github.com/jhoicas/parts-inventory-api/internal/domain/entity"
)

// StockRecordRepository define el puerto del Inventory Store (DIP).
// Cada método de escritura es una única operación atómica en el almacenamiento.
// Las lecturas sin filas devuelven domain.ErrNotFound (nunca un cero silencioso);
// las fallas del motor se envuelven en domain.ErrStorage.
type StockRecordRepository interface {
	// ListAll devuelve todos los registros ordenados por (part_number, warehouse_id).
	ListAll(ctx context.Context) ([]entity.StockRecord, error)
	// Get lee un único registro por clave.
	Get(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error)
	// SumByPart suma la cantidad de una parte en todas las bodegas.
	SumByPart(ctx context.Context, partNumber string) (int64, error)
	// SumByPartWarehouse suma la cantidad de una parte en una bodega.
	SumByPartWarehouse(ctx context.Context, partNumber string, warehouseID int) (int64, error)
	// ListCandidates devuelve (proveedor, cantidad) por prioridad ascendente; vacío si no existe la combinación.
	ListCandidates(ctx context.Context, partNumber string, warehouseID int) ([]entity.Candidate, error)
	// ConditionalDecrement resta 1 solo si la cantidad almacenada sigue siendo expected.
	// Si cambió (o el registro desapareció) devuelve domain.ErrConflict sin modificar nada.
	// expected < 1 es domain.ErrInvalidInput.
	ConditionalDecrement(ctx context.Context, key entity.StockKey, expected int64) error
	// IncrementQuantity suma delta (>= 0) y devuelve el nuevo total. domain.ErrNotFound si la clave no existe.
	IncrementQuantity(ctx context.Context, key entity.StockKey, delta int64) (int64, error)
	// SetQuantity fija la cantidad absoluta (>= 0). domain.ErrNotFound si la clave no existe.
	SetQuantity(ctx context.Context, key entity.StockKey, value int64) error
	// Insert crea el registro con cantidad 0. priority nil = después de los proveedores existentes.
	// domain.ErrConflict si la clave ya existe.
	Insert(ctx context.Context, key entity.StockKey, priority *int) (*entity.StockRecord, error)
	// DeletePart elimina todos los registros de la parte y devuelve cuántos borró.
	// domain.ErrNotFound si no había ninguno.
	DeletePart(ctx context.Context, partNumber string) (int64, error)
	// DeletePartSupplier igual que DeletePart pero solo para un proveedor (todas las bodegas).
	DeletePartSupplier(ctx context.Context, partNumber, supplierID string) (int64, error)
}
