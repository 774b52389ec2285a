package dto

// StockRecordDTO un registro de existencias tal como lo devuelve /getAll.
type StockRecordDTO struct {
	PartNumber  string `json:"part_number"`
	WarehouseID int    `json:"warehouse_id"`
	SupplierID  string `json:"supplier_id"`
	Quantity    int64  `json:"quantity"`
	Priority    int    `json:"priority"`
}

// PartsListResponse respuesta de GET /getAll.
type PartsListResponse struct {
	Result string           `json:"result"`
	Parts  []StockRecordDTO `json:"parts"`
}

// PartTotalResponse respuesta de GET /getPN/{part} y /getPN/{part}/{wh}.
// Warehouse se omite en el total por parte.
type PartTotalResponse struct {
	Result    string `json:"result"`
	Part      string `json:"part"`
	Warehouse *int   `json:"warehouse,omitempty"`
	Quantity  int64  `json:"quantity"`
}

// OrderResponse respuesta de POST /order/{part}/{wh}.
type OrderResponse struct {
	Result            string `json:"result"`
	Part              string `json:"part"`
	Warehouse         int    `json:"wh"`
	Supplier          string `json:"supplier"`
	RemainingQuantity int64  `json:"remaining quantity"`
}

// InsertResponse respuesta de PUT /addPN/{part}/{wh}/{supplier}.
type InsertResponse struct {
	Result    string `json:"result"`
	PN        string `json:"pn"`
	Warehouse int    `json:"warehouse"`
	Supplier  string `json:"supplier"`
	Qty       int64  `json:"qty"`
	Priority  int    `json:"priority"`
}

// AddQuantityResponse respuesta de PUT /addQty.
type AddQuantityResponse struct {
	Result    string `json:"result"`
	PN        string `json:"pn"`
	Warehouse int    `json:"warehouse"`
	Supplier  string `json:"supplier"`
	NewQty    int64  `json:"newQty"`
}

// UpdateQuantityResponse respuesta de PUT /updateQty.
type UpdateQuantityResponse struct {
	Result    string `json:"result"`
	PN        string `json:"pn"`
	Warehouse int    `json:"warehouse"`
	Supplier  string `json:"supplier"`
	Qty       int64  `json:"qty"`
}

// DeleteResponse respuesta de DELETE /deletePN.
type DeleteResponse struct {
	Result   string `json:"result"`
	PN       string `json:"pn"`
	Supplier string `json:"supplier,omitempty"`
	Deleted  int64  `json:"deleted"`
}
