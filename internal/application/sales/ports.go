package sales

import (
	"context"

	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los repositorios de venta.
// Si fn devuelve error no queda ninguna escritura aplicada.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		txnRepo repository.TransactionRepository,
		invRepo repository.InventoryRepository,
		returnRepo repository.ReturnRepository,
		draftRepo repository.DraftTransactionRepository,
	) error) error
}
