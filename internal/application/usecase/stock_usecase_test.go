package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/parts-inventory-api/internal/domain"
	"github.com/jhoicas/parts-inventory-api/internal/domain/entity"
	"github.com/jhoicas/parts-inventory-api/internal/infrastructure/memory"
)

func TestStockLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStockRecordRepository()
	uc := NewStockUseCase(repo)
	k := entity.StockKey{PartNumber: "P1", WarehouseID: 1, SupplierID: "S1"}

	rec, err := uc.Register(ctx, k, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rec.Quantity)

	_, err = uc.Register(ctx, k, nil)
	assert.ErrorIs(t, err, domain.ErrConflict)

	total, err := uc.AddQuantity(ctx, k, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	total, err = uc.AddQuantity(ctx, k, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	require.NoError(t, uc.UpdateQuantity(ctx, k, 10))
	got, err := repo.Get(ctx, k)
	require.NoError(t, err)
	assert.EqualValues(t, 10, got.Quantity)

	n, err := uc.DeletePartSupplier(ctx, "P1", "S1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	_, err = uc.DeletePart(ctx, "P1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockValidation(t *testing.T) {
	ctx := context.Background()
	uc := NewStockUseCase(memory.NewStockRecordRepository())
	bad := entity.StockKey{PartNumber: "", WarehouseID: 1, SupplierID: "S1"}
	good := entity.StockKey{PartNumber: "P1", WarehouseID: 1, SupplierID: "S1"}

	_, err := uc.Register(ctx, bad, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.AddQuantity(ctx, good, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.UpdateQuantity(ctx, good, -1), domain.ErrInvalidInput)
	_, err = uc.DeletePart(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.DeletePartSupplier(ctx, "P1", " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AddQuantity(ctx, good, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddQuantityConcurrentKeys(t *testing.T) {
	ctx := context.Background()
	uc := NewStockUseCase(memory.NewStockRecordRepository())
	a := entity.StockKey{PartNumber: "P1", WarehouseID: 1, SupplierID: "S1"}
	b := entity.StockKey{PartNumber: "P1", WarehouseID: 1, SupplierID: "S2"}
	for _, k := range []entity.StockKey{a, b} {
		_, err := uc.Register(ctx, k, nil)
		require.NoError(t, err)
	}

	const rounds = 50
	var g errgroup.Group
	for i := 0; i < rounds; i++ {
		g.Go(func() error {
			_, err := uc.AddQuantity(ctx, a, 2)
			return err
		})
		g.Go(func() error {
			_, err := uc.AddQuantity(ctx, b, 3)
			return err
		})
	}
	require.NoError(t, g.Wait())

	// Un incremento más sobre cada clave devuelve el total acumulado.
	total, err := uc.AddQuantity(ctx, a, 7)
	require.NoError(t, err)
	assert.EqualValues(t, rounds*2+7, total)
	total, err = uc.AddQuantity(ctx, b, 0)
	require.NoError(t, err)
	assert.EqualValues(t, rounds*3, total)
}
