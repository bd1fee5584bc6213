package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionItemRequest línea de venta.
type TransactionItemRequest struct {
	ProductID     string           `json:"productId"`
	Qty           int              `json:"qty"`
	PriceAtMoment decimal.Decimal  `json:"priceAtMoment"`
	MechanicID    *string          `json:"mechanicId"`
	MechanicFee   *decimal.Decimal `json:"mechanicFee"`
}

// CreateTransactionRequest entrada para registrar una venta.
type CreateTransactionRequest struct {
	BranchID      string                   `json:"branchId"`
	CustomerPlate *string                  `json:"customerPlate"`
	Items         []TransactionItemRequest `json:"items"`
}

// UpdateTransactionStatusRequest cambio de estado (PAID / CANCELLED).
type UpdateTransactionStatusRequest struct {
	Status string `json:"status"`
}

// TransactionDetailResponse línea con producto y mecánico.
type TransactionDetailResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	ProductSKU    string          `json:"productSku"`
	ProductType   string          `json:"productType"`
	Qty           int             `json:"qty"`
	PriceAtMoment decimal.Decimal `json:"priceAtMoment"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	MechanicID    *string         `json:"mechanicId"`
	MechanicName  *string         `json:"mechanicName"`
	MechanicFee   decimal.Decimal `json:"mechanicFee"`
	ReturnedQty   int             `json:"returnedQty"`
}

// TransactionResponse transacción completa.
type TransactionResponse struct {
	ID            string                      `json:"id"`
	TenantID      string                      `json:"tenantId"`
	BranchID      string                      `json:"branchId"`
	BranchName    string                      `json:"branchName"`
	CustomerPlate *string                     `json:"customerPlate"`
	TotalAmount   decimal.Decimal             `json:"totalAmount"`
	Status        string                      `json:"status"`
	CreatedBy     *string                     `json:"createdBy"`
	CreatedAt     time.Time                   `json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
	Details       []TransactionDetailResponse `json:"details"`
}

// TransactionSummaryResponse fila de listado.
type TransactionSummaryResponse struct {
	ID            string          `json:"id"`
	BranchID      string          `json:"branchId"`
	BranchName    string          `json:"branchName"`
	CustomerPlate *string         `json:"customerPlate"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	DetailCount   int             `json:"detailCount"`
	CreatedAt     time.Time       `json:"createdAt"`
}
