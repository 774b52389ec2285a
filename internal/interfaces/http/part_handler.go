package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/parts-inventory-api/internal/application/dto"
	"github.com/jhoicas/parts-inventory-api/internal/application/inventory"
	"github.com/jhoicas/parts-inventory-api/internal/domain"
)

// PartHandler consultas de existencias.
type PartHandler struct {
	uc *inventory.QueryUseCase
}

// NewPartHandler construye el handler.
func NewPartHandler(uc *inventory.QueryUseCase) *PartHandler {
	return &PartHandler{uc: uc}
}

// GetAll godoc
// @Summary      Listar existencias
// @Description  Todos los registros parte/bodega/proveedor
// @Tags         parts
// @Produce      json
// @Success      200  {object}  dto.PartsListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /getAll [get]
func (h *PartHandler) GetAll(c *fiber.Ctx) error {
	list, err := h.uc.GetAllParts(c.UserContext())
	if err != nil {
		return writeError(c, err, "", nil)
	}
	return c.Status(fiber.StatusOK).JSON(dto.PartsListResponse{Result: dto.ResultRetrieved, Parts: list})
}

// GetPartTotal godoc
// @Summary      Total de una parte
// @Description  Suma de cantidades en todas las bodegas y proveedores
// @Tags         parts
// @Produce      json
// @Param        part  path  string  true  "Número de parte"
// @Success      200  {object}  dto.PartTotalResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /getPN/{part} [get]
func (h *PartHandler) GetPartTotal(c *fiber.Ctx) error {
	part, err := pathString(c, "part")
	if err != nil {
		return writeError(c, err, "", nil)
	}
	total, err := h.uc.GetPartTotal(c.UserContext(), part)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"result": dto.ResultError, "code": "NOT_FOUND", "msg": "part does not exist!", "part": part,
		})
	}
	if err != nil {
		return writeError(c, err, "", fiber.Map{"part": part})
	}
	return c.Status(fiber.StatusOK).JSON(dto.PartTotalResponse{Result: dto.ResultRetrieved, Part: part, Quantity: total})
}

// GetPartWarehouseTotal godoc
// @Summary      Total de una parte en una bodega
// @Tags         parts
// @Produce      json
// @Param        part  path  string   true  "Número de parte"
// @Param        wh    path  integer  true  "Bodega"
// @Success      200  {object}  dto.PartTotalResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /getPN/{part}/{wh} [get]
func (h *PartHandler) GetPartWarehouseTotal(c *fiber.Ctx) error {
	part, err := pathString(c, "part")
	if err != nil {
		return writeError(c, err, "", nil)
	}
	wh, err := pathWarehouse(c)
	if err != nil {
		return writeError(c, err, "", fiber.Map{"part": part})
	}
	total, err := h.uc.GetPartWarehouseTotal(c.UserContext(), part, wh)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"result": dto.ResultError, "code": "NOT_FOUND", "msg": "part and wh combo does not exist!", "part": part, "wh": wh,
		})
	}
	if err != nil {
		return writeError(c, err, "", fiber.Map{"part": part, "wh": wh})
	}
	return c.Status(fiber.StatusOK).JSON(dto.PartTotalResponse{Result: dto.ResultRetrieved, Part: part, Warehouse: &wh, Quantity: total})
}
