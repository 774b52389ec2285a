package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/parts-inventory-api/internal/application/usecase"
	"github.com/jhoicas/parts-inventory-api/internal/domain"
	"github.com/jhoicas/parts-inventory-api/internal/domain/entity"
	"github.com/jhoicas/parts-inventory-api/internal/infrastructure/memory"
)

const sample = `
parts:
  - part: P1
    warehouse: 1
    supplier: S1
    quantity: 4
  - part: P1
    warehouse: 1
    supplier: S2
    quantity: 2
    priority: 0
`

func TestParseSeed(t *testing.T) {
	recs, err := parseSeed(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Nil(t, recs[0].Priority)
	require.NotNil(t, recs[1].Priority)
	assert.Equal(t, 0, *recs[1].Priority)

	_, err = parseSeed(strings.NewReader("parts:\n  - part: P1\n    colour: red\n"))
	assert.Error(t, err)
}

func TestApplyIsRepeatable(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStockRecordRepository()
	uc := usecase.NewStockUseCase(repo)
	recs, err := parseSeed(strings.NewReader(sample))
	require.NoError(t, err)

	ins, upd, err := apply(ctx, uc, recs)
	require.NoError(t, err)
	assert.Equal(t, 2, ins)
	assert.Equal(t, 0, upd)

	ins, upd, err = apply(ctx, uc, recs)
	require.NoError(t, err)
	assert.Equal(t, 0, ins)
	assert.Equal(t, 2, upd)

	cands, err := repo.ListCandidates(ctx, "P1", 1)
	require.NoError(t, err)
	assert.Equal(t, []entity.Candidate{{SupplierID: "S2", Quantity: 2}, {SupplierID: "S1", Quantity: 4}}, cands)
}

func TestApplyRejectsInvalid(t *testing.T) {
	uc := usecase.NewStockUseCase(memory.NewStockRecordRepository())
	_, _, err := apply(context.Background(), uc, []seedRecord{{Part: "", Warehouse: 1, Supplier: "S1"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
