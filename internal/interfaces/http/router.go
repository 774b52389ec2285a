package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/parts-inventory-api/internal/application/inventory"
	"github.com/jhoicas/parts-inventory-api/internal/application/usecase"
	"github.com/jhoicas/parts-inventory-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Allocate *inventory.AllocateUseCase
	Query    *inventory.QueryUseCase
	Stock    *usecase.StockUseCase
	Logger   *logger.Logger
	// MetricsHandler se expone en /metrics si no es nil (promhttp).
	MetricsHandler nethttp.Handler
}

// Router registra las rutas de la API. Los paths son los de la API heredada, sin prefijo.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Logger != nil {
		app.Use(RequestLogger(deps.Logger.Component("http")))
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Welcome to the Parts Inventory API")
	})
	hello := func(c *fiber.Ctx) error {
		return c.SendString("Hello World!")
	}
	app.Get("/hello", hello)
	app.Post("/hello", hello)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	parts := NewPartHandler(deps.Query)
	app.Get("/getAll", parts.GetAll)
	app.Get("/getPN/:part", parts.GetPartTotal)
	app.Get("/getPN/:part/:wh", parts.GetPartWarehouseTotal)

	orders := NewOrderHandler(deps.Allocate)
	app.Post("/order/:part/:wh", orders.Order)

	stock := NewStockHandler(deps.Stock)
	app.Put("/addPN/:part/:wh/:supplier", stock.AddPN)
	app.Put("/addQty/:part/:wh/:supplier/:qty", stock.AddQty)
	app.Put("/updateQty/:part/:wh/:supplier/:qty", stock.UpdateQty)
	app.Delete("/deletePN/:part/:supplier", stock.DeletePartSupplier)
	app.Delete("/deletePN/:part", stock.DeletePart)
}
