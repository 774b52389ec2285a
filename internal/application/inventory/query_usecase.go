package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/parts-inventory-api/internal/application/dto"
	"github.com/jhoicas/parts-inventory-api/internal/domain"
	"github.com/jhoicas/parts-inventory-api/internal/domain/repository"
)

// QueryUseCase vistas de solo lectura sobre el store (sin mutación).
// Un agregado sin filas es domain.ErrNotFound; nunca se reporta como cantidad 0.
type QueryUseCase struct {
	store repository.StockRecordRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(store repository.StockRecordRepository) *QueryUseCase {
	return &QueryUseCase{store: store}
}

// GetAllParts lista todos los registros ordenados por parte y bodega.
func (uc *QueryUseCase) GetAllParts(ctx context.Context) ([]dto.StockRecordDTO, error) {
	list, err := uc.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockRecordDTO, 0, len(list))
	for _, r := range list {
		out = append(out, dto.StockRecordDTO{
			PartNumber:  r.PartNumber,
			WarehouseID: r.WarehouseID,
			SupplierID:  r.SupplierID,
			Quantity:    r.Quantity,
			Priority:    r.Priority,
		})
	}
	return out, nil
}

// GetPartTotal total de la parte en todas las bodegas.
func (uc *QueryUseCase) GetPartTotal(ctx context.Context, partNumber string) (int64, error) {
	if strings.TrimSpace(partNumber) == "" {
		return 0, fmt.Errorf("%w: part_number vacío", domain.ErrInvalidInput)
	}
	return uc.store.SumByPart(ctx, partNumber)
}

// GetPartWarehouseTotal total de la parte en una bodega.
func (uc *QueryUseCase) GetPartWarehouseTotal(ctx context.Context, partNumber string, warehouseID int) (int64, error) {
	if strings.TrimSpace(partNumber) == "" || warehouseID < 0 {
		return 0, fmt.Errorf("%w: parte o bodega inválida", domain.ErrInvalidInput)
	}
	return uc.store.SumByPartWarehouse(ctx, partNumber, warehouseID)
}
