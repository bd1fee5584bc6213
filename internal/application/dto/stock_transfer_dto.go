package dto

import "time"

// CreateStockTransferRequest movimiento de stock entre sucursales.
type CreateStockTransferRequest struct {
	ProductID    string  `json:"productId"`
	FromBranchID string  `json:"fromBranchId"`
	ToBranchID   string  `json:"toBranchId"`
	Qty          int     `json:"qty"`
	Notes        *string `json:"notes"`
}

// StockTransferResponse registro del libro de transferencias.
type StockTransferResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"productId"`
	ProductName    string    `json:"productName,omitempty"`
	ProductSKU     string    `json:"productSku,omitempty"`
	FromBranchID   string    `json:"fromBranchId"`
	FromBranchName string    `json:"fromBranchName,omitempty"`
	ToBranchID     string    `json:"toBranchId"`
	ToBranchName   string    `json:"toBranchName,omitempty"`
	Qty            int       `json:"qty"`
	Notes          *string   `json:"notes"`
	TransferredBy  string    `json:"transferredBy"`
	CreatedAt      time.Time `json:"createdAt"`
}
