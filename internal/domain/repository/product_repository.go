package repository

import (
	"context"

	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, tenantID, sku string) (*entity.Product, error)
	List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error)
	// Search busca por nombre o SKU (contiene, sin distinguir mayúsculas).
	Search(ctx context.Context, tenantID, q string, limit int) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, tenantID, id string) error
}

// ProductCache caché de lectura de productos por (tenant, SKU).
// Un fallo de caché nunca debe impedir responder desde la base de datos.
type ProductCache interface {
	Get(ctx context.Context, tenantID, sku string) (*entity.Product, bool, error)
	Set(ctx context.Context, product *entity.Product) error
	Invalidate(ctx context.Context, tenantID string, skus ...string) error
	InvalidateTenant(ctx context.Context, tenantID string) error
}
