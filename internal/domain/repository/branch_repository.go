package repository

import (
	"context"

	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
)

// BranchRepository define el puerto de persistencia para Branch. Toda lectura va acotada por tenant.
type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Branch, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.Branch, error)
	Update(ctx context.Context, branch *entity.Branch) error
	Delete(ctx context.Context, tenantID, id string) error
}
