package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUnknownPartWarehouse = errors.New("combinación de parte y bodega inexistente")
	ErrNoSupplyAvailable    = errors.New("sin existencias en ningún proveedor")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrStorage              = errors.New("almacenamiento no disponible")
)
