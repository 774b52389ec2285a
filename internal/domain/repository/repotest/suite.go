// Package repotest batería de pruebas de contrato para cualquier StockRecordRepository.
// La usan el store en memoria y las pruebas de integración de postgres y redis.
package repotest

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/parts-inventory-api/internal/domain"
	"github.com/jhoicas/parts-inventory-api/internal/domain/entity"
	"github.com/jhoicas/parts-inventory-api/internal/domain/repository"
)

// Factory devuelve un store vacío para cada subtest.
type Factory func(t *testing.T) repository.StockRecordRepository

func key(part string, wh int, sup string) entity.StockKey {
	return entity.StockKey{PartNumber: part, WarehouseID: wh, SupplierID: sup}
}

func intPtr(v int) *int { return &v }

// Run ejecuta el contrato completo.
func Run(t *testing.T, newRepo Factory) {
	t.Run("InsertAndGet", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		rec, err := repo.Insert(ctx, key("P1", 1, "S1"), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, rec.Priority)
		assert.EqualValues(t, 0, rec.Quantity)

		rec, err = repo.Insert(ctx, key("P1", 1, "S2"), nil)
		require.NoError(t, err)
		assert.Equal(t, 2, rec.Priority)

		rec, err = repo.Insert(ctx, key("P1", 1, "S3"), intPtr(0))
		require.NoError(t, err)
		assert.Equal(t, 0, rec.Priority)

		_, err = repo.Insert(ctx, key("P1", 1, "S1"), nil)
		assert.ErrorIs(t, err, domain.ErrConflict)

		got, err := repo.Get(ctx, key("P1", 1, "S2"))
		require.NoError(t, err)
		assert.Equal(t, entity.StockRecord{PartNumber: "P1", WarehouseID: 1, SupplierID: "S2", Quantity: 0, Priority: 2}, *got)

		_, err = repo.Get(ctx, key("P1", 1, "nope"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("CandidatesOrder", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		_, err := repo.Insert(ctx, key("P1", 1, "late"), intPtr(5))
		require.NoError(t, err)
		_, err = repo.Insert(ctx, key("P1", 1, "tie-first"), intPtr(3))
		require.NoError(t, err)
		_, err = repo.Insert(ctx, key("P1", 1, "tie-second"), intPtr(3))
		require.NoError(t, err)
		_, err = repo.Insert(ctx, key("P1", 2, "other-wh"), intPtr(1))
		require.NoError(t, err)
		require.NoError(t, repo.SetQuantity(ctx, key("P1", 1, "late"), 9))

		cands, err := repo.ListCandidates(ctx, "P1", 1)
		require.NoError(t, err)
		assert.Equal(t, []entity.Candidate{
			{SupplierID: "tie-first", Quantity: 0},
			{SupplierID: "tie-second", Quantity: 0},
			{SupplierID: "late", Quantity: 9},
		}, cands)

		cands, err = repo.ListCandidates(ctx, "P1", 7)
		require.NoError(t, err)
		assert.Empty(t, cands)
	})

	t.Run("QuantitiesAndSums", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		_, err := repo.SumByPart(ctx, "P1")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = repo.Insert(ctx, key("P1", 1, "S1"), nil)
		require.NoError(t, err)
		_, err = repo.Insert(ctx, key("P1", 2, "S1"), nil)
		require.NoError(t, err)

		total, err := repo.SumByPart(ctx, "P1")
		require.NoError(t, err)
		assert.EqualValues(t, 0, total)

		n, err := repo.IncrementQuantity(ctx, key("P1", 1, "S1"), 4)
		require.NoError(t, err)
		assert.EqualValues(t, 4, n)
		require.NoError(t, repo.SetQuantity(ctx, key("P1", 2, "S1"), 6))

		total, err = repo.SumByPart(ctx, "P1")
		require.NoError(t, err)
		assert.EqualValues(t, 10, total)
		total, err = repo.SumByPartWarehouse(ctx, "P1", 2)
		require.NoError(t, err)
		assert.EqualValues(t, 6, total)
		_, err = repo.SumByPartWarehouse(ctx, "P1", 3)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = repo.IncrementQuantity(ctx, key("P9", 1, "S1"), 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, repo.SetQuantity(ctx, key("P9", 1, "S1"), 1), domain.ErrNotFound)
	})

	t.Run("ConditionalDecrement", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		k := key("P1", 1, "S1")
		_, err := repo.Insert(ctx, k, nil)
		require.NoError(t, err)
		require.NoError(t, repo.SetQuantity(ctx, k, 2))

		assert.ErrorIs(t, repo.ConditionalDecrement(ctx, k, 0), domain.ErrInvalidInput)
		assert.ErrorIs(t, repo.ConditionalDecrement(ctx, k, 3), domain.ErrConflict)
		require.NoError(t, repo.ConditionalDecrement(ctx, k, 2))
		require.NoError(t, repo.ConditionalDecrement(ctx, k, 1))
		assert.ErrorIs(t, repo.ConditionalDecrement(ctx, k, 1), domain.ErrConflict)
		assert.ErrorIs(t, repo.ConditionalDecrement(ctx, key("P1", 1, "gone"), 1), domain.ErrConflict)

		got, err := repo.Get(ctx, k)
		require.NoError(t, err)
		assert.EqualValues(t, 0, got.Quantity)
	})

	t.Run("ConditionalDecrementLargeQuantities", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		k := key("P1", 1, "S1")
		_, err := repo.Insert(ctx, k, nil)
		require.NoError(t, err)
		const big = int64(1)<<53 + 1
		require.NoError(t, repo.SetQuantity(ctx, k, big))

		// big-1 y big son iguales como float64; el compare-and-swap debe distinguirlos.
		assert.ErrorIs(t, repo.ConditionalDecrement(ctx, k, big-1), domain.ErrConflict)
		require.NoError(t, repo.ConditionalDecrement(ctx, k, big))
		got, err := repo.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, big-1, got.Quantity)
	})

	t.Run("QuantityOverflow", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		k := key("P1", 1, "S1")
		_, err := repo.Insert(ctx, k, nil)
		require.NoError(t, err)

		n, err := repo.IncrementQuantity(ctx, k, math.MaxInt64)
		require.NoError(t, err)
		assert.EqualValues(t, int64(math.MaxInt64), n)

		_, err = repo.IncrementQuantity(ctx, k, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		got, err := repo.Get(ctx, k)
		require.NoError(t, err)
		assert.EqualValues(t, int64(math.MaxInt64), got.Quantity)

		// Dos filas válidas cuyo total no cabe en int64.
		k2 := key("P1", 1, "S2")
		_, err = repo.Insert(ctx, k2, nil)
		require.NoError(t, err)
		require.NoError(t, repo.SetQuantity(ctx, k2, 1))
		_, err = repo.SumByPart(ctx, "P1")
		assert.ErrorIs(t, err, domain.ErrStorage)
		_, err = repo.SumByPartWarehouse(ctx, "P1", 1)
		assert.ErrorIs(t, err, domain.ErrStorage)
	})

	t.Run("ConditionalDecrementRace", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		k := key("P1", 1, "S1")
		_, err := repo.Insert(ctx, k, nil)
		require.NoError(t, err)
		require.NoError(t, repo.SetQuantity(ctx, k, 3))

		var wins int32
		var wg sync.WaitGroup
		for i := 0; i < 12; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if repo.ConditionalDecrement(ctx, k, 3) == nil {
					atomic.AddInt32(&wins, 1)
				}
			}()
		}
		wg.Wait()
		assert.EqualValues(t, 1, wins)
		got, err := repo.Get(ctx, k)
		require.NoError(t, err)
		assert.EqualValues(t, 2, got.Quantity)
	})

	t.Run("Deletes", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		for _, k := range []entity.StockKey{key("P1", 1, "S1"), key("P1", 2, "S1"), key("P1", 1, "S2"), key("P2", 1, "S1")} {
			_, err := repo.Insert(ctx, k, nil)
			require.NoError(t, err)
		}

		n, err := repo.DeletePartSupplier(ctx, "P1", "S1")
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
		_, err = repo.DeletePartSupplier(ctx, "P1", "S1")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		cands, err := repo.ListCandidates(ctx, "P1", 1)
		require.NoError(t, err)
		assert.Equal(t, []entity.Candidate{{SupplierID: "S2", Quantity: 0}}, cands)

		n, err = repo.DeletePart(ctx, "P1")
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		_, err = repo.DeletePart(ctx, "P1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = repo.SumByPart(ctx, "P1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = repo.SumByPartWarehouse(ctx, "P1", 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "P2", all[0].PartNumber)

		// Una clave borrada puede volver a registrarse.
		_, err = repo.Insert(ctx, key("P1", 1, "S1"), nil)
		assert.NoError(t, err)
	})

	t.Run("ListAllOrder", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		for _, k := range []entity.StockKey{key("B", 2, "x"), key("A", 2, "x"), key("A", 1, "y"), key("A", 1, "x")} {
			_, err := repo.Insert(ctx, k, nil)
			require.NoError(t, err)
		}
		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		got := make([]string, 0, len(all))
		for _, r := range all {
			got = append(got, r.Key().String())
		}
		assert.Equal(t, []string{"A/1/y", "A/1/x", "A/2/x", "B/2/x"}, got)
	})
}
