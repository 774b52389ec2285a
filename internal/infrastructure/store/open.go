// Package store elige e inicializa la implementación del Inventory Store según STORE_DRIVER.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/parts-inventory-api/internal/domain/repository"
	"github.com/jhoicas/parts-inventory-api/internal/infrastructure/memory"
	"github.com/jhoicas/parts-inventory-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/parts-inventory-api/internal/infrastructure/redis"
	"github.com/jhoicas/parts-inventory-api/pkg/config"
	"github.com/jhoicas/parts-inventory-api/pkg/logger"
)

// Open conecta el store configurado. close libera conexiones y siempre es no-nil.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.StockRecordRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		return memory.NewStockRecordRepository(), func() {}, nil

	case config.StoreDriverPostgres:
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, cfg.DB.ConnectionString(), cfg.DB.MigrationsDir); err != nil {
				return nil, func() {}, err
			}
			log.Info().Str("dir", cfg.DB.MigrationsDir).Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, func() {}, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return postgres.NewStockRecordRepository(pool), pool.Close, nil

	case config.StoreDriverRedis:
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, func() {}, fmt.Errorf("conexión a Redis: %w", err)
		}
		repo := infraredis.NewStockRecordRepository(client, cfg.Redis.KeyPrefix)
		if err := repo.LoadScripts(ctx); err != nil {
			_ = client.Close()
			return nil, func() {}, err
		}
		return repo, func() { _ = client.Close() }, nil
	}
	return nil, func() {}, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
}
