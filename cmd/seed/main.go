// seed carga existencias iniciales desde un archivo YAML en el store configurado (STORE_DRIVER).
//
// Uso: go run ./cmd/seed [ruta/seed.yaml]
// Por defecto lee seed.yaml en el directorio actual. Las claves ya registradas no se
// vuelven a insertar; su cantidad se fija al valor del archivo.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/parts-inventory-api/internal/application/usecase"
	"github.com/jhoicas/parts-inventory-api/internal/domain"
	"github.com/jhoicas/parts-inventory-api/internal/domain/entity"
	"github.com/jhoicas/parts-inventory-api/internal/infrastructure/store"
	"github.com/jhoicas/parts-inventory-api/pkg/config"
	"github.com/jhoicas/parts-inventory-api/pkg/logger"
)

type seedFile struct {
	Parts []seedRecord `yaml:"parts"`
}

type seedRecord struct {
	Part      string `yaml:"part"`
	Warehouse int    `yaml:"warehouse"`
	Supplier  string `yaml:"supplier"`
	Quantity  int64  `yaml:"quantity"`
	Priority  *int   `yaml:"priority"`
}

func main() {
	path := "seed.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("abrir archivo de seed")
	}
	records, err := parseSeed(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("leer archivo de seed")
	}

	ctx := context.Background()
	repo, closeStore, err := store.Open(ctx, cfg, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar store")
	}
	defer closeStore()

	inserted, updated, err := apply(ctx, usecase.NewStockUseCase(repo), records)
	if err != nil {
		log.Error().Err(err).Msg("seed incompleto")
		closeStore()
		os.Exit(1)
	}
	log.Info().Int("inserted", inserted).Int("updated", updated).Msg("seed aplicado")
}

func parseSeed(r io.Reader) ([]seedRecord, error) {
	var s seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decodificar YAML: %w", err)
	}
	return s.Parts, nil
}

// apply registra cada clave (si no existía) y fija su cantidad.
func apply(ctx context.Context, uc *usecase.StockUseCase, records []seedRecord) (inserted, updated int, err error) {
	for i, r := range records {
		key := entity.StockKey{PartNumber: r.Part, WarehouseID: r.Warehouse, SupplierID: r.Supplier}
		_, regErr := uc.Register(ctx, key, r.Priority)
		switch {
		case regErr == nil:
			inserted++
		case errors.Is(regErr, domain.ErrConflict):
			updated++
		default:
			return inserted, updated, fmt.Errorf("registro %d (%s): %w", i, key, regErr)
		}
		if err := uc.UpdateQuantity(ctx, key, r.Quantity); err != nil {
			return inserted, updated, fmt.Errorf("registro %d (%s): %w", i, key, err)
		}
	}
	return inserted, updated, nil
}
