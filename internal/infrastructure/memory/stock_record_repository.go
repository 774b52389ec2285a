package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/parts-inventory-api/internal/domain"
	"github.com/jhoicas/parts-inventory-api/internal/domain/entity"
	"github.com/jhoicas/parts-inventory-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

type row struct {
	rec entity.StockRecord
	seq uint64
}

// StockRecordRepo implementación en memoria del Inventory Store.
// Usada en desarrollo (STORE_DRIVER=memory) y en tests. Un RWMutex protege el mapa;
// cada método es una sección crítica completa, así que cada escritura es atómica.
type StockRecordRepo struct {
	mu      sync.RWMutex
	rows    map[entity.StockKey]*row
	nextSeq uint64
}

// NewStockRecordRepository crea un store vacío.
func NewStockRecordRepository() *StockRecordRepo {
	return &StockRecordRepo{rows: make(map[entity.StockKey]*row)}
}

// ListAll devuelve copias ordenadas por parte, bodega y orden de inserción.
func (r *StockRecordRepo) ListAll(ctx context.Context) ([]entity.StockRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list stock records: %w: %w", domain.ErrStorage, err)
	}
	r.mu.RLock()
	rows := make([]*row, 0, len(r.rows))
	for _, rw := range r.rows {
		rows = append(rows, rw)
	}
	r.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].rec, rows[j].rec
		if a.PartNumber != b.PartNumber {
			return a.PartNumber < b.PartNumber
		}
		if a.WarehouseID != b.WarehouseID {
			return a.WarehouseID < b.WarehouseID
		}
		return rows[i].seq < rows[j].seq
	})
	list := make([]entity.StockRecord, 0, len(rows))
	for _, rw := range rows {
		list = append(list, rw.rec)
	}
	return list, nil
}

func (r *StockRecordRepo) Get(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rw, ok := r.rows[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	rec := rw.rec
	return &rec, nil
}

func (r *StockRecordRepo) SumByPart(ctx context.Context, partNumber string) (int64, error) {
	return r.sum(func(rec entity.StockRecord) bool { return rec.PartNumber == partNumber })
}

func (r *StockRecordRepo) SumByPartWarehouse(ctx context.Context, partNumber string, warehouseID int) (int64, error) {
	return r.sum(func(rec entity.StockRecord) bool {
		return rec.PartNumber == partNumber && rec.WarehouseID == warehouseID
	})
}

func (r *StockRecordRepo) sum(match func(entity.StockRecord) bool) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total int64
	found := false
	for _, rw := range r.rows {
		if !match(rw.rec) {
			continue
		}
		found = true
		next, ok := entity.AddQuantities(total, rw.rec.Quantity)
		if !ok {
			return 0, fmt.Errorf("sum stock records: %w: total fuera de rango", domain.ErrStorage)
		}
		total = next
	}
	if !found {
		return 0, domain.ErrNotFound
	}
	return total, nil
}

// ListCandidates ordena por prioridad y, a igual prioridad, por orden de inserción.
func (r *StockRecordRepo) ListCandidates(ctx context.Context, partNumber string, warehouseID int) ([]entity.Candidate, error) {
	r.mu.RLock()
	var rows []row
	for _, rw := range r.rows {
		if rw.rec.PartNumber == partNumber && rw.rec.WarehouseID == warehouseID {
			rows = append(rows, *rw)
		}
	}
	r.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].rec.Priority != rows[j].rec.Priority {
			return rows[i].rec.Priority < rows[j].rec.Priority
		}
		return rows[i].seq < rows[j].seq
	})
	list := make([]entity.Candidate, 0, len(rows))
	for _, rw := range rows {
		list = append(list, entity.Candidate{SupplierID: rw.rec.SupplierID, Quantity: rw.rec.Quantity})
	}
	return list, nil
}

// ConditionalDecrement compare-and-swap bajo el lock de escritura.
func (r *StockRecordRepo) ConditionalDecrement(ctx context.Context, key entity.StockKey, expected int64) error {
	if expected < 1 {
		return fmt.Errorf("%w: expected debe ser >= 1", domain.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rw, ok := r.rows[key]
	if !ok || rw.rec.Quantity != expected {
		return domain.ErrConflict
	}
	rw.rec.Quantity--
	return nil
}

func (r *StockRecordRepo) IncrementQuantity(ctx context.Context, key entity.StockKey, delta int64) (int64, error) {
	if err := entity.ValidateQuantity(delta); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rw, ok := r.rows[key]
	if !ok {
		return 0, domain.ErrNotFound
	}
	next, ok := entity.AddQuantities(rw.rec.Quantity, delta)
	if !ok {
		return 0, fmt.Errorf("%w: cantidad fuera de rango", domain.ErrInvalidInput)
	}
	rw.rec.Quantity = next
	return next, nil
}

func (r *StockRecordRepo) SetQuantity(ctx context.Context, key entity.StockKey, value int64) error {
	if err := entity.ValidateQuantity(value); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rw, ok := r.rows[key]
	if !ok {
		return domain.ErrNotFound
	}
	rw.rec.Quantity = value
	return nil
}

// Insert crea el registro; sin prioridad explícita toma max+1 entre los proveedores de la parte+bodega.
func (r *StockRecordRepo) Insert(ctx context.Context, key entity.StockKey, priority *int) (*entity.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[key]; ok {
		return nil, domain.ErrConflict
	}
	p := 1
	if priority != nil {
		p = *priority
	} else {
		first := true
		for _, rw := range r.rows {
			if rw.rec.PartNumber != key.PartNumber || rw.rec.WarehouseID != key.WarehouseID {
				continue
			}
			if first || rw.rec.Priority+1 > p {
				p = rw.rec.Priority + 1
				first = false
			}
		}
	}
	r.nextSeq++
	rec := entity.StockRecord{
		PartNumber:  key.PartNumber,
		WarehouseID: key.WarehouseID,
		SupplierID:  key.SupplierID,
		Quantity:    0,
		Priority:    p,
	}
	r.rows[key] = &row{rec: rec, seq: r.nextSeq}
	return &rec, nil
}

func (r *StockRecordRepo) DeletePart(ctx context.Context, partNumber string) (int64, error) {
	return r.deleteWhere(func(k entity.StockKey) bool { return k.PartNumber == partNumber })
}

func (r *StockRecordRepo) DeletePartSupplier(ctx context.Context, partNumber, supplierID string) (int64, error) {
	return r.deleteWhere(func(k entity.StockKey) bool {
		return k.PartNumber == partNumber && k.SupplierID == supplierID
	})
}

func (r *StockRecordRepo) deleteWhere(match func(entity.StockKey) bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k := range r.rows {
		if match(k) {
			delete(r.rows, k)
			n++
		}
	}
	if n == 0 {
		return 0, domain.ErrNotFound
	}
	return n, nil
}
