package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/parts-inventory-api/internal/domain"
	"github.com/jhoicas/parts-inventory-api/internal/domain/entity"
	"github.com/jhoicas/parts-inventory-api/internal/domain/repository"
	"github.com/jhoicas/parts-inventory-api/pkg/logger"
)

// DefaultMaxAttempts intentos de decremento por proveedor cuando no se configura otro valor.
const DefaultMaxAttempts = 3

// AllocateOptions parámetros opcionales del caso de uso.
type AllocateOptions struct {
	MaxAttempts int
	Metrics     *Metrics
	Logger      *logger.Logger
}

// AllocateUseCase motor de asignación: elige el proveedor de mayor prioridad con existencias
// y le descuenta una unidad mediante el decremento condicional del store.
// No guarda estado entre llamadas; cada Allocate vuelve a leer los candidatos.
type AllocateUseCase struct {
	store       repository.StockRecordRepository
	maxAttempts int
	metrics     *Metrics
	log         *logger.Logger
	tracer      trace.Tracer
}

// NewAllocateUseCase construye el motor sobre el store inyectado.
func NewAllocateUseCase(store repository.StockRecordRepository, opts AllocateOptions) *AllocateUseCase {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &AllocateUseCase{
		store:       store,
		maxAttempts: opts.MaxAttempts,
		metrics:     opts.Metrics,
		log:         opts.Logger.Component("allocation"),
		tracer:      otel.Tracer("github.com/jhoicas/parts-inventory-api/internal/application/inventory"),
	}
}

// Allocate despacha una unidad de la parte en la bodega.
//
// Recorre los candidatos por prioridad ascendente. Para cada uno con cantidad > 0 intenta
// ConditionalDecrement con la cantidad leída; ante ErrConflict relee solo ese proveedor y
// reintenta hasta maxAttempts veces antes de pasar al siguiente.
//
// Errores: domain.ErrInvalidInput, domain.ErrUnknownPartWarehouse (sin candidatos),
// domain.ErrNoSupplyAvailable (todos agotados) o el error del store (domain.ErrStorage).
func (uc *AllocateUseCase) Allocate(ctx context.Context, partNumber string, warehouseID int) (alloc *entity.Allocation, err error) {
	start := time.Now()
	ctx, span := uc.tracer.Start(ctx, "inventory.Allocate", trace.WithAttributes(
		attribute.String("part_number", partNumber),
		attribute.Int("warehouse_id", warehouseID),
	))
	defer func() {
		uc.metrics.observe(outcomeOf(err), start)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(
				attribute.String("supplier_id", alloc.SupplierID),
				attribute.Int64("remaining_quantity", alloc.RemainingQuantity),
			)
		}
		span.End()
	}()

	if strings.TrimSpace(partNumber) == "" || warehouseID < 0 {
		return nil, fmt.Errorf("%w: parte o bodega inválida", domain.ErrInvalidInput)
	}

	candidates, err := uc.store.ListCandidates(ctx, partNumber, warehouseID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, domain.ErrUnknownPartWarehouse
	}

	for _, c := range candidates {
		if c.Quantity <= 0 {
			continue
		}
		key := entity.StockKey{PartNumber: partNumber, WarehouseID: warehouseID, SupplierID: c.SupplierID}
		got, tryErr := uc.tryCandidate(ctx, key, c.Quantity)
		if tryErr != nil {
			return nil, tryErr
		}
		if got != nil {
			return got, nil
		}
	}
	return nil, domain.ErrNoSupplyAvailable
}

// tryCandidate devuelve (nil, nil) cuando el proveedor quedó sin existencias o se agotaron
// los reintentos; el caller pasa entonces al siguiente candidato.
func (uc *AllocateUseCase) tryCandidate(ctx context.Context, key entity.StockKey, quantity int64) (*entity.Allocation, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("allocate %s: %w", key, err)
		}
		err := uc.store.ConditionalDecrement(ctx, key, quantity)
		if err == nil {
			return &entity.Allocation{
				PartNumber:        key.PartNumber,
				WarehouseID:       key.WarehouseID,
				SupplierID:        key.SupplierID,
				RemainingQuantity: quantity - 1,
			}, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}

		uc.metrics.conflict()
		trace.SpanFromContext(ctx).AddEvent("conflict", trace.WithAttributes(
			attribute.String("supplier_id", key.SupplierID),
			attribute.Int64("expected", quantity),
			attribute.Int("attempt", attempt),
		))
		uc.log.Debug().
			Str("key", key.String()).
			Int64("expected", quantity).
			Int("attempt", attempt).
			Msg("conflicto en decremento condicional")

		if attempt >= uc.maxAttempts {
			uc.metrics.retriesExhausted()
			uc.log.Warn().
				Str("key", key.String()).
				Int("attempts", attempt).
				Msg("reintentos agotados, se pasa al siguiente proveedor")
			return nil, nil
		}

		rec, err := uc.store.Get(ctx, key)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if rec.Quantity <= 0 {
			return nil, nil
		}
		quantity = rec.Quantity
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrUnknownPartWarehouse):
		return OutcomeUnknown
	case errors.Is(err, domain.ErrNoSupplyAvailable):
		return OutcomeNoSupply
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
