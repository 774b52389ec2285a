package inventory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/parts-inventory-api/internal/domain"
	"github.com/jhoicas/parts-inventory-api/internal/domain/entity"
	"github.com/jhoicas/parts-inventory-api/internal/infrastructure/memory"
)

type seedRow struct {
	supplier string
	qty      int64
	priority int
}

func newStore(t *testing.T, part string, wh int, rows ...seedRow) *memory.StockRecordRepo {
	t.Helper()
	ctx := context.Background()
	repo := memory.NewStockRecordRepository()
	for _, r := range rows {
		p := r.priority
		k := entity.StockKey{PartNumber: part, WarehouseID: wh, SupplierID: r.supplier}
		_, err := repo.Insert(ctx, k, &p)
		require.NoError(t, err)
		require.NoError(t, repo.SetQuantity(ctx, k, r.qty))
	}
	return repo
}

func qtyOf(t *testing.T, repo *memory.StockRecordRepo, part string, wh int, supplier string) int64 {
	t.Helper()
	rec, err := repo.Get(context.Background(), entity.StockKey{PartNumber: part, WarehouseID: wh, SupplierID: supplier})
	require.NoError(t, err)
	return rec.Quantity
}

func TestAllocateSkipsEmptyHigherPriority(t *testing.T) {
	repo := newStore(t, "P1", 1,
		seedRow{"A", 0, 1},
		seedRow{"B", 5, 2},
	)
	uc := NewAllocateUseCase(repo, AllocateOptions{})

	alloc, err := uc.Allocate(context.Background(), "P1", 1)
	require.NoError(t, err)
	assert.Equal(t, &entity.Allocation{PartNumber: "P1", WarehouseID: 1, SupplierID: "B", RemainingQuantity: 4}, alloc)
	assert.EqualValues(t, 0, qtyOf(t, repo, "P1", 1, "A"))
	assert.EqualValues(t, 4, qtyOf(t, repo, "P1", 1, "B"))
}

func TestAllocateDrainsInPriorityOrder(t *testing.T) {
	repo := newStore(t, "P1", 1,
		seedRow{"B", 1, 2},
		seedRow{"A", 2, 1},
	)
	uc := NewAllocateUseCase(repo, AllocateOptions{})
	ctx := context.Background()

	var got []string
	for i := 0; i < 3; i++ {
		alloc, err := uc.Allocate(ctx, "P1", 1)
		require.NoError(t, err)
		got = append(got, alloc.SupplierID)
	}
	assert.Equal(t, []string{"A", "A", "B"}, got)

	_, err := uc.Allocate(ctx, "P1", 1)
	assert.ErrorIs(t, err, domain.ErrNoSupplyAvailable)
}

func TestAllocateUnknownAndInvalid(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	uc := NewAllocateUseCase(memory.NewStockRecordRepository(), AllocateOptions{Metrics: m})
	ctx := context.Background()

	_, err := uc.Allocate(ctx, "P1", 1)
	assert.ErrorIs(t, err, domain.ErrUnknownPartWarehouse)
	_, err = uc.Allocate(ctx, "", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Allocate(ctx, "P1", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.allocations.WithLabelValues(OutcomeUnknown)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.allocations.WithLabelValues(OutcomeInvalid)))
}

func TestAllocateAllZeroIsNoSupply(t *testing.T) {
	repo := newStore(t, "P1", 1, seedRow{"A", 0, 1}, seedRow{"B", 0, 2})
	_, err := NewAllocateUseCase(repo, AllocateOptions{}).Allocate(context.Background(), "P1", 1)
	assert.ErrorIs(t, err, domain.ErrNoSupplyAvailable)
}

// racingStore simula escritores concurrentes: antes de delegar cada decremento
// condicional ejecuta steal(key) sobre el store real.
type racingStore struct {
	*memory.StockRecordRepo
	steal func(ctx context.Context, key entity.StockKey)
}

func (s *racingStore) ConditionalDecrement(ctx context.Context, key entity.StockKey, expected int64) error {
	if s.steal != nil {
		s.steal(ctx, key)
	}
	return s.StockRecordRepo.ConditionalDecrement(ctx, key, expected)
}

func TestAllocateRetriesAfterConflict(t *testing.T) {
	repo := newStore(t, "P1", 1, seedRow{"A", 5, 1})
	var steals int32
	store := &racingStore{StockRecordRepo: repo}
	store.steal = func(ctx context.Context, key entity.StockKey) {
		if atomic.AddInt32(&steals, 1) == 1 {
			require.NoError(t, repo.ConditionalDecrement(ctx, key, 5))
		}
	}
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	uc := NewAllocateUseCase(store, AllocateOptions{Metrics: m})

	alloc, err := uc.Allocate(context.Background(), "P1", 1)
	require.NoError(t, err)
	assert.Equal(t, "A", alloc.SupplierID)
	assert.EqualValues(t, 3, alloc.RemainingQuantity)
	assert.EqualValues(t, 3, qtyOf(t, repo, "P1", 1, "A"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conflicts))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.exhausted))
}

func TestAllocateMovesOnWhenRetriesExhausted(t *testing.T) {
	repo := newStore(t, "P1", 1, seedRow{"A", 10, 1}, seedRow{"B", 2, 2})
	store := &racingStore{StockRecordRepo: repo}
	store.steal = func(ctx context.Context, key entity.StockKey) {
		if key.SupplierID != "A" {
			return
		}
		rec, err := repo.Get(ctx, key)
		require.NoError(t, err)
		require.NoError(t, repo.ConditionalDecrement(ctx, key, rec.Quantity))
	}
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	uc := NewAllocateUseCase(store, AllocateOptions{MaxAttempts: 2, Metrics: m})

	alloc, err := uc.Allocate(context.Background(), "P1", 1)
	require.NoError(t, err)
	assert.Equal(t, "B", alloc.SupplierID)
	assert.EqualValues(t, 1, alloc.RemainingQuantity)
	assert.EqualValues(t, 8, qtyOf(t, repo, "P1", 1, "A"))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.conflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exhausted))
}

func TestAllocateSupplierDrainedDuringRetry(t *testing.T) {
	repo := newStore(t, "P1", 1, seedRow{"A", 1, 1}, seedRow{"B", 1, 2})
	store := &racingStore{StockRecordRepo: repo}
	var once int32
	store.steal = func(ctx context.Context, key entity.StockKey) {
		if key.SupplierID == "A" && atomic.CompareAndSwapInt32(&once, 0, 1) {
			require.NoError(t, repo.ConditionalDecrement(ctx, key, 1))
		}
	}
	alloc, err := NewAllocateUseCase(store, AllocateOptions{}).Allocate(context.Background(), "P1", 1)
	require.NoError(t, err)
	assert.Equal(t, "B", alloc.SupplierID)
	assert.EqualValues(t, 0, alloc.RemainingQuantity)
}

func TestAllocateSupplierDeletedDuringRetry(t *testing.T) {
	repo := newStore(t, "P1", 1, seedRow{"A", 3, 1}, seedRow{"B", 1, 2})
	store := &racingStore{StockRecordRepo: repo}
	store.steal = func(ctx context.Context, key entity.StockKey) {
		if key.SupplierID == "A" {
			_, _ = repo.DeletePartSupplier(ctx, "P1", "A")
		}
	}
	alloc, err := NewAllocateUseCase(store, AllocateOptions{}).Allocate(context.Background(), "P1", 1)
	require.NoError(t, err)
	assert.Equal(t, "B", alloc.SupplierID)
}

type failingStore struct {
	*memory.StockRecordRepo
}

func (failingStore) ConditionalDecrement(context.Context, entity.StockKey, int64) error {
	return errors.Join(domain.ErrStorage, errors.New("connection reset"))
}

func TestAllocatePropagatesStorageError(t *testing.T) {
	repo := newStore(t, "P1", 1, seedRow{"A", 3, 1})
	_, err := NewAllocateUseCase(failingStore{repo}, AllocateOptions{}).Allocate(context.Background(), "P1", 1)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.EqualValues(t, 3, qtyOf(t, repo, "P1", 1, "A"))
}

func TestAllocateCanceledContext(t *testing.T) {
	repo := newStore(t, "P1", 1, seedRow{"A", 3, 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAllocateUseCase(repo, AllocateOptions{}).Allocate(ctx, "P1", 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 3, qtyOf(t, repo, "P1", 1, "A"))
}

func TestAllocateConcurrentNeverOversells(t *testing.T) {
	const initialA, initialB, workers = 7, 5, 40
	repo := newStore(t, "P1", 1, seedRow{"A", initialA, 1}, seedRow{"B", initialB, 2})
	uc := NewAllocateUseCase(repo, AllocateOptions{MaxAttempts: 50})

	var ok, noSupply int64
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			_, err := uc.Allocate(ctx, "P1", 1)
			switch {
			case err == nil:
				atomic.AddInt64(&ok, 1)
			case errors.Is(err, domain.ErrNoSupplyAvailable):
				atomic.AddInt64(&noSupply, 1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, initialA+initialB, ok)
	assert.EqualValues(t, workers-initialA-initialB, noSupply)
	assert.EqualValues(t, 0, qtyOf(t, repo, "P1", 1, "A"))
	assert.EqualValues(t, 0, qtyOf(t, repo, "P1", 1, "B"))
}
