package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/parts-inventory-api/internal/application/dto"
	"github.com/jhoicas/parts-inventory-api/internal/application/usecase"
	"github.com/jhoicas/parts-inventory-api/internal/domain"
)

// StockHandler mantenimiento de existencias (alta, cantidades, baja).
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

func keyEcho(part string, wh int, supplier string) fiber.Map {
	return fiber.Map{"pn": part, "warehouse": wh, "supplier": supplier}
}

// AddPN godoc
// @Summary      Registrar parte/bodega/proveedor
// @Description  Alta con cantidad 0. Sin priority el proveedor queda después de los existentes.
// @Tags         stock
// @Produce      json
// @Param        part      path   string   true   "Número de parte"
// @Param        wh        path   integer  true   "Bodega"
// @Param        supplier  path   string   true   "Proveedor"
// @Param        priority  query  integer  false  "Prioridad (menor = se despacha antes)"
// @Success      200  {object}  dto.InsertResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /addPN/{part}/{wh}/{supplier} [put]
func (h *StockHandler) AddPN(c *fiber.Ctx) error {
	key, err := stockKeyParams(c)
	if err != nil {
		return writeError(c, err, "", nil)
	}
	var priority *int
	if raw := c.Query("priority"); raw != "" {
		p, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return writeError(c, fmt.Errorf("%w: priority debe ser entero", domain.ErrInvalidInput), "",
				keyEcho(key.PartNumber, key.WarehouseID, key.SupplierID))
		}
		priority = &p
	}
	rec, err := h.uc.Register(c.UserContext(), key, priority)
	if err != nil {
		return writeError(c, err, "", keyEcho(key.PartNumber, key.WarehouseID, key.SupplierID))
	}
	return c.Status(fiber.StatusOK).JSON(dto.InsertResponse{
		Result:    dto.ResultInserted,
		PN:        rec.PartNumber,
		Warehouse: rec.WarehouseID,
		Supplier:  rec.SupplierID,
		Qty:       rec.Quantity,
		Priority:  rec.Priority,
	})
}

// AddQty godoc
// @Summary      Sumar cantidad
// @Tags         stock
// @Produce      json
// @Param        part      path  string   true  "Número de parte"
// @Param        wh        path  integer  true  "Bodega"
// @Param        supplier  path  string   true  "Proveedor"
// @Param        qty       path  integer  true  "Cantidad a sumar"
// @Success      200  {object}  dto.AddQuantityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /addQty/{part}/{wh}/{supplier}/{qty} [put]
func (h *StockHandler) AddQty(c *fiber.Ctx) error {
	key, err := stockKeyParams(c)
	if err != nil {
		return writeError(c, err, "", nil)
	}
	echo := keyEcho(key.PartNumber, key.WarehouseID, key.SupplierID)
	qty, err := pathNonNegInt(c, "qty")
	if err != nil {
		return writeError(c, err, "", echo)
	}
	total, err := h.uc.AddQuantity(c.UserContext(), key, qty)
	if err != nil {
		return writeError(c, err, "part number/supplierid/warehouse combo does not exist", echo)
	}
	return c.Status(fiber.StatusOK).JSON(dto.AddQuantityResponse{
		Result:    dto.ResultUpdated,
		PN:        key.PartNumber,
		Warehouse: key.WarehouseID,
		Supplier:  key.SupplierID,
		NewQty:    total,
	})
}

// UpdateQty godoc
// @Summary      Fijar cantidad
// @Tags         stock
// @Produce      json
// @Param        part      path  string   true  "Número de parte"
// @Param        wh        path  integer  true  "Bodega"
// @Param        supplier  path  string   true  "Proveedor"
// @Param        qty       path  integer  true  "Cantidad absoluta"
// @Success      200  {object}  dto.UpdateQuantityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /updateQty/{part}/{wh}/{supplier}/{qty} [put]
func (h *StockHandler) UpdateQty(c *fiber.Ctx) error {
	key, err := stockKeyParams(c)
	if err != nil {
		return writeError(c, err, "", nil)
	}
	echo := keyEcho(key.PartNumber, key.WarehouseID, key.SupplierID)
	qty, err := pathNonNegInt(c, "qty")
	if err != nil {
		return writeError(c, err, "", echo)
	}
	if err := h.uc.UpdateQuantity(c.UserContext(), key, qty); err != nil {
		return writeError(c, err, "part number/supplierid/warehouse combo does not exist", echo)
	}
	return c.Status(fiber.StatusOK).JSON(dto.UpdateQuantityResponse{
		Result:    dto.ResultUpdated,
		PN:        key.PartNumber,
		Warehouse: key.WarehouseID,
		Supplier:  key.SupplierID,
		Qty:       qty,
	})
}

// DeletePartSupplier godoc
// @Summary      Eliminar parte de un proveedor
// @Description  Borra la parte del proveedor en todas las bodegas
// @Tags         stock
// @Produce      json
// @Param        part      path  string  true  "Número de parte"
// @Param        supplier  path  string  true  "Proveedor"
// @Success      200  {object}  dto.DeleteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /deletePN/{part}/{supplier} [delete]
func (h *StockHandler) DeletePartSupplier(c *fiber.Ctx) error {
	part, err := pathString(c, "part")
	if err != nil {
		return writeError(c, err, "", nil)
	}
	supplier, err := pathString(c, "supplier")
	if err != nil {
		return writeError(c, err, "", fiber.Map{"pn": part})
	}
	n, err := h.uc.DeletePartSupplier(c.UserContext(), part, supplier)
	if err != nil {
		return writeError(c, err, "part number/supplierid combo does not exist", fiber.Map{"pn": part, "supplier": supplier})
	}
	return c.Status(fiber.StatusOK).JSON(dto.DeleteResponse{Result: dto.ResultDeleted, PN: part, Supplier: supplier, Deleted: n})
}

// DeletePart godoc
// @Summary      Eliminar parte
// @Description  Borra la parte en todas las bodegas y proveedores
// @Tags         stock
// @Produce      json
// @Param        part  path  string  true  "Número de parte"
// @Success      200  {object}  dto.DeleteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /deletePN/{part} [delete]
func (h *StockHandler) DeletePart(c *fiber.Ctx) error {
	part, err := pathString(c, "part")
	if err != nil {
		return writeError(c, err, "", nil)
	}
	n, err := h.uc.DeletePart(c.UserContext(), part)
	if err != nil {
		return writeError(c, err, "part number does not exist", fiber.Map{"pn": part})
	}
	return c.Status(fiber.StatusOK).JSON(dto.DeleteResponse{Result: dto.ResultDeleted, PN: part, Deleted: n})
}
