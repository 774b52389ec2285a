package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/parts-inventory-api/internal/infrastructure/memory"
	"github.com/jhoicas/parts-inventory-api/pkg/config"
	"github.com/jhoicas/parts-inventory-api/pkg/logger"
)

func TestOpenMemory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverMemory}}
	repo, closeFn, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &memory.StockRecordRepo{}, repo)
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "mongo"}}
	_, closeFn, err := Open(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
	assert.NotNil(t, closeFn)
}
