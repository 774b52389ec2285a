package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/parts-inventory-api/internal/domain"
	"github.com/jhoicas/parts-inventory-api/internal/domain/entity"
	"github.com/jhoicas/parts-inventory-api/internal/domain/repository"
	"github.com/jhoicas/parts-inventory-api/internal/domain/repository/repotest"
)

func key(part string, wh int, sup string) entity.StockKey {
	return entity.StockKey{PartNumber: part, WarehouseID: wh, SupplierID: sup}
}

func intPtr(v int) *int { return &v }

func TestInsertDefaultPriority(t *testing.T) {
	ctx := context.Background()
	repo := NewStockRecordRepository()

	rec, err := repo.Insert(ctx, key("P1", 1, "S1"), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Priority)
	assert.EqualValues(t, 0, rec.Quantity)

	rec, err = repo.Insert(ctx, key("P1", 1, "S2"), intPtr(-4))
	require.NoError(t, err)
	assert.Equal(t, -4, rec.Priority)

	rec, err = repo.Insert(ctx, key("P1", 1, "S3"), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Priority)

	// Otra bodega empieza de nuevo.
	rec, err = repo.Insert(ctx, key("P1", 2, "S1"), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Priority)

	_, err = repo.Insert(ctx, key("P1", 1, "S1"), nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestListAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStockRecordRepository().ListAll(ctx)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStockRecordRepoContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.StockRecordRepository {
		return NewStockRecordRepository()
	})
}
