package redis

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/parts-inventory-api/internal/domain"
	"github.com/jhoicas/parts-inventory-api/internal/domain/entity"
	"github.com/jhoicas/parts-inventory-api/internal/domain/repository"
	"github.com/jhoicas/parts-inventory-api/pkg/config"
)

//go:embed scripts/insert.lua
var insertLua string

//go:embed scripts/conditional_decrement.lua
var conditionalDecrementLua string

//go:embed scripts/increment.lua
var incrementLua string

//go:embed scripts/set_quantity.lua
var setQuantityLua string

//go:embed scripts/delete.lua
var deleteLua string

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// Códigos de increment.lua.
const (
	incrementMissing  = -1
	incrementOverflow = -2
)

// StockRecordRepo Inventory Store sobre Redis.
//
// Esquema de claves (prefix = REDIS_KEY_PREFIX):
//   - {prefix}:rec:{len}:{part}:{wh}:{supplier}  hash con part, warehouse, supplier, quantity, priority, seq
//   - {prefix}:idx                               set con todas las claves de registro
//   - {prefix}:part:{len}:{part}                 set de registros de una parte
//   - {prefix}:cand:{len}:{part}:{wh}            set de registros de una parte en una bodega
//   - {prefix}:seq                               contador de inserción (desempate de prioridad)
//
// El largo de la parte va en la clave para que ningún part_number con ':' colisione con otro.
// Toda escritura es un script Lua (atómico en el servidor); las lecturas usan pipeline.
// Los scripts calculan claves derivadas, así que requiere Redis standalone (no cluster).
type StockRecordRepo struct {
	client *redis.Client
	prefix string

	insert    *redis.Script
	decrement *redis.Script
	increment *redis.Script
	set       *redis.Script
	delete    *redis.Script
}

// NewClient abre el cliente y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewStockRecordRepository construye el adaptador con el prefijo de claves indicado.
func NewStockRecordRepository(client *redis.Client, prefix string) *StockRecordRepo {
	if prefix == "" {
		prefix = "inventory"
	}
	return &StockRecordRepo{
		client:    client,
		prefix:    prefix,
		insert:    redis.NewScript(insertLua),
		decrement: redis.NewScript(conditionalDecrementLua),
		increment: redis.NewScript(incrementLua),
		set:       redis.NewScript(setQuantityLua),
		delete:    redis.NewScript(deleteLua),
	}
}

// LoadScripts precarga los scripts (SCRIPT LOAD); Run usa EVALSHA y cae a EVAL si faltan.
func (r *StockRecordRepo) LoadScripts(ctx context.Context) error {
	for _, s := range []*redis.Script{r.insert, r.decrement, r.increment, r.set, r.delete} {
		if err := s.Load(ctx, r.client).Err(); err != nil {
			return storageErr("load script", err)
		}
	}
	return nil
}

func (r *StockRecordRepo) ListAll(ctx context.Context) ([]entity.StockRecord, error) {
	rows, err := r.loadSet(ctx, r.indexKey())
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.rec.PartNumber != b.rec.PartNumber {
			return a.rec.PartNumber < b.rec.PartNumber
		}
		if a.rec.WarehouseID != b.rec.WarehouseID {
			return a.rec.WarehouseID < b.rec.WarehouseID
		}
		return a.seq < b.seq
	})
	list := make([]entity.StockRecord, 0, len(rows))
	for _, rw := range rows {
		list = append(list, rw.rec)
	}
	return list, nil
}

func (r *StockRecordRepo) Get(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	fields, err := r.client.HGetAll(ctx, r.recordKey(key)).Result()
	if err != nil {
		return nil, storageErr("get record", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrNotFound
	}
	rw, err := parseRow(fields)
	if err != nil {
		return nil, err
	}
	return &rw.rec, nil
}

func (r *StockRecordRepo) SumByPart(ctx context.Context, partNumber string) (int64, error) {
	return r.sum(ctx, r.partKey(partNumber))
}

func (r *StockRecordRepo) SumByPartWarehouse(ctx context.Context, partNumber string, warehouseID int) (int64, error) {
	return r.sum(ctx, r.candidatesKey(partNumber, warehouseID))
}

func (r *StockRecordRepo) sum(ctx context.Context, setKey string) (int64, error) {
	rows, err := r.loadSet(ctx, setKey)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, domain.ErrNotFound
	}
	var total int64
	for _, rw := range rows {
		next, ok := entity.AddQuantities(total, rw.rec.Quantity)
		if !ok {
			return 0, storageErr("sum records", fmt.Errorf("total fuera de rango"))
		}
		total = next
	}
	return total, nil
}

func (r *StockRecordRepo) ListCandidates(ctx context.Context, partNumber string, warehouseID int) ([]entity.Candidate, error) {
	rows, err := r.loadSet(ctx, r.candidatesKey(partNumber, warehouseID))
	if err != nil {
		return nil, err
	}
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

func (r *StockRecordRepo) ConditionalDecrement(ctx context.Context, key entity.StockKey, expected int64) error {
	if expected < 1 {
		return fmt.Errorf("%w: expected debe ser >= 1", domain.ErrInvalidInput)
	}
	n, err := r.decrement.Run(ctx, r.client, []string{r.recordKey(key)}, expected).Int64()
	if err != nil {
		return storageErr("conditional decrement", err)
	}
	if n < 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *StockRecordRepo) IncrementQuantity(ctx context.Context, key entity.StockKey, delta int64) (int64, error) {
	if err := entity.ValidateQuantity(delta); err != nil {
		return 0, err
	}
	n, err := r.increment.Run(ctx, r.client, []string{r.recordKey(key)}, delta).Int64()
	if err != nil {
		return 0, storageErr("increment quantity", err)
	}
	switch n {
	case incrementMissing:
		return 0, domain.ErrNotFound
	case incrementOverflow:
		return 0, fmt.Errorf("%w: cantidad fuera de rango", domain.ErrInvalidInput)
	}
	return n, nil
}

func (r *StockRecordRepo) SetQuantity(ctx context.Context, key entity.StockKey, value int64) error {
	if err := entity.ValidateQuantity(value); err != nil {
		return err
	}
	ok, err := r.set.Run(ctx, r.client, []string{r.recordKey(key)}, value).Int64()
	if err != nil {
		return storageErr("set quantity", err)
	}
	if ok == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockRecordRepo) Insert(ctx context.Context, key entity.StockKey, priority *int) (*entity.StockRecord, error) {
	p := ""
	if priority != nil {
		p = strconv.Itoa(*priority)
	}
	keys := []string{
		r.recordKey(key),
		r.indexKey(),
		r.partKey(key.PartNumber),
		r.candidatesKey(key.PartNumber, key.WarehouseID),
		r.prefix + ":seq",
	}
	res, err := r.insert.Run(ctx, r.client, keys, key.PartNumber, key.WarehouseID, key.SupplierID, p).Int64Slice()
	if err != nil {
		return nil, storageErr("insert record", err)
	}
	if len(res) != 2 {
		return nil, storageErr("insert record", fmt.Errorf("respuesta inesperada del script: %v", res))
	}
	if res[0] == 0 {
		return nil, domain.ErrConflict
	}
	return &entity.StockRecord{
		PartNumber:  key.PartNumber,
		WarehouseID: key.WarehouseID,
		SupplierID:  key.SupplierID,
		Priority:    int(res[1]),
	}, nil
}

func (r *StockRecordRepo) DeletePart(ctx context.Context, partNumber string) (int64, error) {
	return r.deleteWhere(ctx, partNumber, "")
}

func (r *StockRecordRepo) DeletePartSupplier(ctx context.Context, partNumber, supplierID string) (int64, error) {
	return r.deleteWhere(ctx, partNumber, supplierID)
}

func (r *StockRecordRepo) deleteWhere(ctx context.Context, partNumber, supplierID string) (int64, error) {
	keys := []string{r.partKey(partNumber), r.indexKey()}
	n, err := r.delete.Run(ctx, r.client, keys, supplierID, r.candidatesPrefix(partNumber)).Int64()
	if err != nil {
		return 0, storageErr("delete records", err)
	}
	if n == 0 {
		return 0, domain.ErrNotFound
	}
	return n, nil
}

type row struct {
	rec entity.StockRecord
	seq int64
}

// loadSet lee todos los hashes referenciados por un set índice en un solo pipeline.
// Los miembros cuyo hash ya no existe (borrado concurrente) se ignoran.
func (r *StockRecordRepo) loadSet(ctx context.Context, setKey string) ([]row, error) {
	members, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, storageErr("read index", err)
	}
	if len(members) == 0 {
		return nil, nil
	}
	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, 0, len(members))
	for _, m := range members {
		cmds = append(cmds, pipe.HGetAll(ctx, m))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, storageErr("read records", err)
	}
	rows := make([]row, 0, len(cmds))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		rw, err := parseRow(fields)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rw)
	}
	return rows, nil
}

func parseRow(fields map[string]string) (row, error) {
	wh, err1 := strconv.Atoi(fields["warehouse"])
	qty, err2 := strconv.ParseInt(fields["quantity"], 10, 64)
	prio, err3 := strconv.Atoi(fields["priority"])
	seq, err4 := strconv.ParseInt(fields["seq"], 10, 64)
	for _, err := range []error{err1, err2, err3, err4} {
		if err != nil {
			return row{}, storageErr("parse record", err)
		}
	}
	return row{
		rec: entity.StockRecord{
			PartNumber:  fields["part"],
			WarehouseID: wh,
			SupplierID:  fields["supplier"],
			Quantity:    qty,
			Priority:    prio,
		},
		seq: seq,
	}, nil
}

func (r *StockRecordRepo) indexKey() string {
	return r.prefix + ":idx"
}

func (r *StockRecordRepo) partKey(partNumber string) string {
	return fmt.Sprintf("%s:part:%d:%s", r.prefix, len(partNumber), partNumber)
}

func (r *StockRecordRepo) candidatesPrefix(partNumber string) string {
	return fmt.Sprintf("%s:cand:%d:%s:", r.prefix, len(partNumber), partNumber)
}

func (r *StockRecordRepo) candidatesKey(partNumber string, warehouseID int) string {
	return r.candidatesPrefix(partNumber) + strconv.Itoa(warehouseID)
}

func (r *StockRecordRepo) recordKey(k entity.StockKey) string {
	return fmt.Sprintf("%s:rec:%d:%s:%d:%s", r.prefix, len(k.PartNumber), k.PartNumber, k.WarehouseID, k.SupplierID)
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}
