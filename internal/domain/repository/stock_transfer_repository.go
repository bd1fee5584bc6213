package repository

import (
	"context"

	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
)

// StockTransferFilter BranchID coincide con origen o destino.
type StockTransferFilter struct {
	TenantID  string
	BranchID  string
	ProductID string
}

// StockTransferView transferencia con nombres para la UI.
type StockTransferView struct {
	entity.StockTransfer
	ProductName    string
	ProductSKU     string
	FromBranchName string
	ToBranchName   string
}

// StockTransferRepository define el puerto del libro de transferencias (solo inserción).
type StockTransferRepository interface {
	Create(ctx context.Context, transfer *entity.StockTransfer) error
	GetByID(ctx context.Context, tenantID, id string) (*StockTransferView, error)
	List(ctx context.Context, filter StockTransferFilter) ([]StockTransferView, error)
}
