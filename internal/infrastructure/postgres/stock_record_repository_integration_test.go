//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/parts-inventory-api/internal/domain/repository"
	"github.com/jhoicas/parts-inventory-api/internal/domain/repository/repotest"
)

func TestStockRecordRepo_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("parts_inventory"),
		tcpostgres.WithUsername("inventory"),
		tcpostgres.WithPassword("inventory"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// migrations/ está en la raíz del módulo.
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok)
	migrationsDir := filepath.Join(filepath.Dir(filename), "..", "..", "..", "migrations")
	require.NoError(t, Migrate(ctx, dsn, migrationsDir))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repotest.Run(t, func(t *testing.T) repository.StockRecordRepository {
		_, err := pool.Exec(ctx, "TRUNCATE parts")
		require.NoError(t, err)
		return NewStockRecordRepository(pool)
	})
}
