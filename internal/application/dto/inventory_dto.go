package dto

import "time"

// CreateInventoryRequest alta de stock inicial de un producto en una sucursal.
type CreateInventoryRequest struct {
	BranchID      string `json:"branchId"`
	ProductID     string `json:"productId"`
	Qty           int    `json:"qty"`
	MinStockAlert *int   `json:"minStockAlert"`
}

// AdjustInventoryRequest IsAdjustment=true aplica Qty como delta con signo; false fija Qty absoluta.
type AdjustInventoryRequest struct {
	Qty          int  `json:"qty"`
	IsAdjustment bool `json:"isAdjustment"`
}

// InventoryResponse fila de inventario con nombres.
type InventoryResponse struct {
	ID            string    `json:"id"`
	BranchID      string    `json:"branchId"`
	BranchName    string    `json:"branchName,omitempty"`
	ProductID     string    `json:"productId"`
	SKU           string    `json:"sku,omitempty"`
	ProductName   string    `json:"productName,omitempty"`
	ProductType   string    `json:"productType,omitempty"`
	Qty           int       `json:"qty"`
	MinStockAlert int       `json:"minStockAlert"`
	IsLow         bool      `json:"isLow"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
