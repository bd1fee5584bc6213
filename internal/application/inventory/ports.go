package inventory

import (
	"context"

	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para las transferencias entre sucursales.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		transferRepo repository.StockTransferRepository,
	) error) error
}
