package repository

import (
	"context"

	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
)

// MechanicFilter filtros para listar mecánicos.
type MechanicFilter struct {
	TenantID   string
	BranchID   string // vacío = todas
	ActiveOnly bool
}

// MechanicRepository define el puerto de persistencia para Mechanic.
type MechanicRepository interface {
	Create(ctx context.Context, mechanic *entity.Mechanic) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Mechanic, error)
	List(ctx context.Context, filter MechanicFilter) ([]*entity.Mechanic, error)
	Update(ctx context.Context, mechanic *entity.Mechanic) error
	Delete(ctx context.Context, tenantID, id string) error
}
