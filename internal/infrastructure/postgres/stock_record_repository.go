package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/parts-inventory-api/internal/domain"
	"github.com/jhoicas/parts-inventory-api/internal/domain/entity"
	"github.com/jhoicas/parts-inventory-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación del Inventory Store sobre la tabla parts (usable con pool o tx).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

// ListAll lista todos los registros; seq desempata dentro de parte+bodega.
func (r *StockRecordRepo) ListAll(ctx context.Context) ([]entity.StockRecord, error) {
	query := `
		SELECT part_number, warehouse_id, supplier_id, quantity, priority
		FROM parts ORDER BY part_number ASC, warehouse_id ASC, seq ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, storageErr("list parts", err)
	}
	defer rows.Close()
	list := make([]entity.StockRecord, 0)
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.PartNumber, &s.WarehouseID, &s.SupplierID, &s.Quantity, &s.Priority); err != nil {
			return nil, storageErr("scan part", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list parts", err)
	}
	return list, nil
}

// Get obtiene un registro por clave.
func (r *StockRecordRepo) Get(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	query := `
		SELECT part_number, warehouse_id, supplier_id, quantity, priority
		FROM parts WHERE part_number = $1 AND warehouse_id = $2 AND supplier_id = $3`
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, query, key.PartNumber, key.WarehouseID, key.SupplierID).Scan(
		&s.PartNumber, &s.WarehouseID, &s.SupplierID, &s.Quantity, &s.Priority,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("get part", err)
	}
	return &s, nil
}

// SumByPart SUM devuelve NULL cuando no hay filas; eso es ErrNotFound, no cero.
func (r *StockRecordRepo) SumByPart(ctx context.Context, partNumber string) (int64, error) {
	query := `SELECT SUM(quantity)::bigint FROM parts WHERE part_number = $1`
	return r.sum(ctx, "sum part", query, partNumber)
}

func (r *StockRecordRepo) SumByPartWarehouse(ctx context.Context, partNumber string, warehouseID int) (int64, error) {
	query := `SELECT SUM(quantity)::bigint FROM parts WHERE part_number = $1 AND warehouse_id = $2`
	return r.sum(ctx, "sum part warehouse", query, partNumber, warehouseID)
}

func (r *StockRecordRepo) sum(ctx context.Context, op, query string, args ...any) (int64, error) {
	var total *int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, storageErr(op, err)
	}
	if total == nil {
		return 0, domain.ErrNotFound
	}
	return *total, nil
}

// ListCandidates proveedores de la parte en la bodega por prioridad ascendente.
func (r *StockRecordRepo) ListCandidates(ctx context.Context, partNumber string, warehouseID int) ([]entity.Candidate, error) {
	query := `
		SELECT supplier_id, quantity
		FROM parts WHERE part_number = $1 AND warehouse_id = $2
		ORDER BY priority ASC, seq ASC`
	rows, err := r.q.Query(ctx, query, partNumber, warehouseID)
	if err != nil {
		return nil, storageErr("list candidates", err)
	}
	defer rows.Close()
	var list []entity.Candidate
	for rows.Next() {
		var c entity.Candidate
		if err := rows.Scan(&c.SupplierID, &c.Quantity); err != nil {
			return nil, storageErr("scan candidate", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list candidates", err)
	}
	return list, nil
}

// ConditionalDecrement un único UPDATE guardado por quantity = expected.
// Si otra transacción ya consumió la unidad, el predicado no coincide y no se toca la fila.
func (r *StockRecordRepo) ConditionalDecrement(ctx context.Context, key entity.StockKey, expected int64) error {
	if expected < 1 {
		return fmt.Errorf("%w: expected debe ser >= 1", domain.ErrInvalidInput)
	}
	query := `
		UPDATE parts SET quantity = quantity - 1
		WHERE part_number = $1 AND warehouse_id = $2 AND supplier_id = $3 AND quantity = $4`
	cmd, err := r.q.Exec(ctx, query, key.PartNumber, key.WarehouseID, key.SupplierID, expected)
	if err != nil {
		return storageErr("conditional decrement", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// IncrementQuantity suma delta de forma aditiva en el motor (sin leer antes).
func (r *StockRecordRepo) IncrementQuantity(ctx context.Context, key entity.StockKey, delta int64) (int64, error) {
	if err := entity.ValidateQuantity(delta); err != nil {
		return 0, err
	}
	query := `
		UPDATE parts SET quantity = quantity + $4
		WHERE part_number = $1 AND warehouse_id = $2 AND supplier_id = $3
		RETURNING quantity`
	var total int64
	err := r.q.QueryRow(ctx, query, key.PartNumber, key.WarehouseID, key.SupplierID, delta).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		if isOutOfRange(err) {
			return 0, fmt.Errorf("%w: cantidad fuera de rango", domain.ErrInvalidInput)
		}
		return 0, storageErr("increment quantity", err)
	}
	return total, nil
}

func (r *StockRecordRepo) SetQuantity(ctx context.Context, key entity.StockKey, value int64) error {
	if err := entity.ValidateQuantity(value); err != nil {
		return err
	}
	query := `
		UPDATE parts SET quantity = $4
		WHERE part_number = $1 AND warehouse_id = $2 AND supplier_id = $3`
	cmd, err := r.q.Exec(ctx, query, key.PartNumber, key.WarehouseID, key.SupplierID, value)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
		}
		return storageErr("set quantity", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Insert crea el registro con cantidad 0. Sin prioridad explícita se calcula MAX+1
// dentro del mismo INSERT para la parte+bodega (1 si es el primer proveedor).
func (r *StockRecordRepo) Insert(ctx context.Context, key entity.StockKey, priority *int) (*entity.StockRecord, error) {
	query := `
		INSERT INTO parts (part_number, warehouse_id, supplier_id, quantity, priority)
		SELECT $1::text, $2::integer, $3::text, 0,
			COALESCE($4::integer,
				(SELECT MAX(priority) + 1 FROM parts WHERE part_number = $1::text AND warehouse_id = $2::integer),
				1)
		RETURNING priority`
	rec := entity.StockRecord{
		PartNumber:  key.PartNumber,
		WarehouseID: key.WarehouseID,
		SupplierID:  key.SupplierID,
	}
	err := r.q.QueryRow(ctx, query, key.PartNumber, key.WarehouseID, key.SupplierID, priority).Scan(&rec.Priority)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		return nil, storageErr("insert part", err)
	}
	return &rec, nil
}

func (r *StockRecordRepo) DeletePart(ctx context.Context, partNumber string) (int64, error) {
	return r.delete(ctx, `DELETE FROM parts WHERE part_number = $1`, partNumber)
}

func (r *StockRecordRepo) DeletePartSupplier(ctx context.Context, partNumber, supplierID string) (int64, error) {
	return r.delete(ctx, `DELETE FROM parts WHERE part_number = $1 AND supplier_id = $2`, partNumber, supplierID)
}

func (r *StockRecordRepo) delete(ctx context.Context, query string, args ...any) (int64, error) {
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, storageErr("delete part", err)
	}
	if cmd.RowsAffected() == 0 {
		return 0, domain.ErrNotFound
	}
	return cmd.RowsAffected(), nil
}
