package repository

import (
	"context"

	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
)

// ReturnView devolución con datos de la línea, producto y transacción.
type ReturnView struct {
	entity.TransactionReturn
	TransactionID string
	ProductID     string
	ProductName   string
	ProductSKU    string
}

// ReturnRepository define el puerto de persistencia para devoluciones.
type ReturnRepository interface {
	Create(ctx context.Context, ret *entity.TransactionReturn) error
	SumQtyByDetail(ctx context.Context, detailID string) (int, error)
	// List con transactionID vacío devuelve todas las del tenant.
	List(ctx context.Context, tenantID, transactionID string) ([]ReturnView, error)
}
