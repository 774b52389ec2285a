package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/parts-inventory-api/internal/domain"
	"github.com/jhoicas/parts-inventory-api/internal/domain/entity"
	"github.com/jhoicas/parts-inventory-api/internal/domain/repository"
)

// StockUseCase casos de uso de mantenimiento de existencias: alta, suma, ajuste y baja.
// Valida la entrada antes de tocar el store; cada operación es una sola escritura atómica.
type StockUseCase struct {
	repo repository.StockRecordRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(repo repository.StockRecordRepository) *StockUseCase {
	return &StockUseCase{repo: repo}
}

// Register da de alta parte+bodega+proveedor con cantidad 0.
// priority nil coloca al proveedor después de los existentes para esa parte y bodega.
func (uc *StockUseCase) Register(ctx context.Context, key entity.StockKey, priority *int) (*entity.StockRecord, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return uc.repo.Insert(ctx, key, priority)
}

// AddQuantity suma qty (>= 0) y devuelve el nuevo total.
func (uc *StockUseCase) AddQuantity(ctx context.Context, key entity.StockKey, qty int64) (int64, error) {
	if err := key.Validate(); err != nil {
		return 0, err
	}
	if err := entity.ValidateQuantity(qty); err != nil {
		return 0, err
	}
	return uc.repo.IncrementQuantity(ctx, key, qty)
}

// UpdateQuantity fija la cantidad absoluta (>= 0).
func (uc *StockUseCase) UpdateQuantity(ctx context.Context, key entity.StockKey, qty int64) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := entity.ValidateQuantity(qty); err != nil {
		return err
	}
	return uc.repo.SetQuantity(ctx, key, qty)
}

// DeletePart elimina la parte en todas las bodegas y proveedores.
func (uc *StockUseCase) DeletePart(ctx context.Context, partNumber string) (int64, error) {
	if strings.TrimSpace(partNumber) == "" {
		return 0, fmt.Errorf("%w: part_number vacío", domain.ErrInvalidInput)
	}
	return uc.repo.DeletePart(ctx, partNumber)
}

// DeletePartSupplier elimina la parte solo para un proveedor (todas sus bodegas).
func (uc *StockUseCase) DeletePartSupplier(ctx context.Context, partNumber, supplierID string) (int64, error) {
	if strings.TrimSpace(partNumber) == "" || strings.TrimSpace(supplierID) == "" {
		return 0, fmt.Errorf("%w: parte o proveedor vacío", domain.ErrInvalidInput)
	}
	return uc.repo.DeletePartSupplier(ctx, partNumber, supplierID)
}
