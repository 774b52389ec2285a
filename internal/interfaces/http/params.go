package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/parts-inventory-api/internal/domain"
	"github.com/jhoicas/parts-inventory-api/internal/domain/entity"
)

// pathString devuelve el parámetro decodificado y copiado: Fiber reutiliza el buffer
// de la petición, y el store en memoria conserva los strings que recibe.
func pathString(c *fiber.Ctx, name string) (string, error) {
	raw := c.Params(name)
	v, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s mal codificado", domain.ErrInvalidInput, name)
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: %s requerido", domain.ErrInvalidInput, name)
	}
	return strings.Clone(v), nil
}

// pathNonNegInt parsea warehouse/qty: entero >= 0.
func pathNonNegInt(c *fiber.Ctx, name string) (int64, error) {
	n, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s debe ser un entero no negativo", domain.ErrInvalidInput, name)
	}
	return n, nil
}

func pathWarehouse(c *fiber.Ctx) (int, error) {
	n, err := pathNonNegInt(c, "wh")
	if err != nil {
		return 0, err
	}
	if n > int64(^uint32(0)>>1) {
		return 0, fmt.Errorf("%w: wh fuera de rango", domain.ErrInvalidInput)
	}
	return int(n), nil
}

// stockKeyParams lee part, wh y supplier de la ruta.
func stockKeyParams(c *fiber.Ctx) (entity.StockKey, error) {
	part, err := pathString(c, "part")
	if err != nil {
		return entity.StockKey{}, err
	}
	wh, err := pathWarehouse(c)
	if err != nil {
		return entity.StockKey{}, err
	}
	supplier, err := pathString(c, "supplier")
	if err != nil {
		return entity.StockKey{}, err
	}
	return entity.StockKey{PartNumber: part, WarehouseID: wh, SupplierID: supplier}, nil
}
