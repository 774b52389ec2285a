package dto

// Valores del campo result en las respuestas (contrato heredado de la API original).
const (
	ResultRetrieved = "OK -- RETRIEVED"
	ResultOrdered   = "OK -- ORDERED"
	ResultInserted  = "OK -- INSERTED"
	ResultUpdated   = "OK -- UPDATED"
	ResultDeleted   = "OK -- DELETED"
	ResultError     = "ERROR"
)

// ErrorResponse cuerpo de error HTTP. Code es estable para clientes; Msg es legible.
type ErrorResponse struct {
	Result string `json:"result"`
	Code   string `json:"code"`
	Msg    string `json:"msg"`
}
