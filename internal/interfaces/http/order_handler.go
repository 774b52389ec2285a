package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/parts-inventory-api/internal/application/dto"
	"github.com/jhoicas/parts-inventory-api/internal/application/inventory"
)

// OrderHandler despacho de órdenes sobre el motor de asignación.
type OrderHandler struct {
	uc *inventory.AllocateUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *inventory.AllocateUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Order godoc
// @Summary      Ordenar una unidad
// @Description  Descuenta una unidad del proveedor de mayor prioridad con existencias
// @Tags         orders
// @Produce      json
// @Param        part  path  string   true  "Número de parte"
// @Param        wh    path  integer  true  "Bodega"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /order/{part}/{wh} [post]
func (h *OrderHandler) Order(c *fiber.Ctx) error {
	part, err := pathString(c, "part")
	if err != nil {
		return writeError(c, err, "", nil)
	}
	wh, err := pathWarehouse(c)
	if err != nil {
		return writeError(c, err, "", fiber.Map{"part": part})
	}
	alloc, err := h.uc.Allocate(c.UserContext(), part, wh)
	if err != nil {
		return writeError(c, err, "", fiber.Map{"part": part, "wh": wh})
	}
	return c.Status(fiber.StatusOK).JSON(dto.OrderResponse{
		Result:            dto.ResultOrdered,
		Part:              alloc.PartNumber,
		Warehouse:         alloc.WarehouseID,
		Supplier:          alloc.SupplierID,
		RemainingQuantity: alloc.RemainingQuantity,
	})
}
