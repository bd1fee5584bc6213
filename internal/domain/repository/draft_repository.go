package repository

import (
	"context"

	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
)

// DraftFilter filtros para listar borradores.
type DraftFilter struct {
	TenantID  string
	BranchID  string
	CreatedBy string
}

// DraftTransactionRepository define el puerto de persistencia para borradores.
type DraftTransactionRepository interface {
	Create(ctx context.Context, draft *entity.DraftTransaction) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.DraftTransaction, error)
	List(ctx context.Context, filter DraftFilter) ([]*entity.DraftTransaction, error)
	Update(ctx context.Context, draft *entity.DraftTransaction) error
	// Delete devuelve ErrNotFound si no borró nada.
	Delete(ctx context.Context, tenantID, id string) error
}
