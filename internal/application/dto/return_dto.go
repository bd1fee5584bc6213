package dto

import "time"

// CreateReturnRequest devolución contra una línea de venta.
type CreateReturnRequest struct {
	TransactionDetailID string  `json:"transactionDetailId"`
	Qty                 int     `json:"qty"`
	Reason              string  `json:"reason"`
	Notes               *string `json:"notes"`
}

// ReturnResponse devolución registrada. InventoryRestored=false si no existía fila de inventario.
type ReturnResponse struct {
	ID                  string    `json:"id"`
	TransactionDetailID string    `json:"transactionDetailId"`
	TransactionID       string    `json:"transactionId,omitempty"`
	ProductID           string    `json:"productId,omitempty"`
	ProductName         string    `json:"productName,omitempty"`
	ProductSKU          string    `json:"productSku,omitempty"`
	Qty                 int       `json:"qty"`
	Reason              string    `json:"reason"`
	Notes               *string   `json:"notes"`
	ReturnedBy          string    `json:"returnedBy"`
	InventoryRestored   *bool     `json:"inventoryRestored,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}
