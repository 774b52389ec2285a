package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/parts-inventory-api/internal/application/dto"
	"github.com/jhoicas/parts-inventory-api/internal/domain"
)

// apiError traducción fija de un tipo de error de dominio a status + code.
type apiError struct {
	status int
	code   string
	msg    string
}

// Todos los errores de negocio responden 400, como la API original; el code los distingue.
func classify(err error) apiError {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return apiError{fiber.StatusBadRequest, "VALIDATION", err.Error()}
	case errors.Is(err, domain.ErrUnknownPartWarehouse):
		return apiError{fiber.StatusBadRequest, "UNKNOWN_PART_WAREHOUSE", "part and warehouse combination does not exist!"}
	case errors.Is(err, domain.ErrNoSupplyAvailable):
		return apiError{fiber.StatusBadRequest, "NO_SUPPLY", "quantity 0 for all suppliers"}
	case errors.Is(err, domain.ErrNotFound):
		return apiError{fiber.StatusBadRequest, "NOT_FOUND", "does not exist"}
	case errors.Is(err, domain.ErrConflict):
		return apiError{fiber.StatusConflict, "DUPLICATE", "Could not add value combination!"}
	case errors.Is(err, domain.ErrStorage):
		return apiError{fiber.StatusBadRequest, "STORAGE", "storage unavailable"}
	default:
		return apiError{fiber.StatusInternalServerError, "INTERNAL", "internal error"}
	}
}

// writeError responde {result:"ERROR", code, msg, request_id} más los parámetros de la ruta en echo.
// notFoundMsg reemplaza el mensaje genérico de NOT_FOUND por el propio del endpoint.
func writeError(c *fiber.Ctx, err error, notFoundMsg string, echo fiber.Map) error {
	e := classify(err)
	if e.code == "NOT_FOUND" && notFoundMsg != "" {
		e.msg = notFoundMsg
	}
	if e.status >= fiber.StatusInternalServerError || e.code == "STORAGE" {
		c.Locals(LocalError, err)
	}
	body := fiber.Map{"result": dto.ResultError, "code": e.code, "msg": e.msg}
	if rid := GetRequestID(c); rid != "" {
		body["request_id"] = rid
	}
	for k, v := range echo {
		body[k] = v
	}
	return c.Status(e.status).JSON(body)
}
