package repository

import (
	"context"

	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
)

// InventoryRow fila de inventario con datos de producto y sucursal (solo lectura).
type InventoryRow struct {
	entity.Inventory
	SKU         string
	ProductName string
	ProductType string
	BranchName  string
}

// InventoryRepository define el puerto de inventario. Todas las mutaciones de cantidad son
// sentencias únicas condicionales: nunca hay lectura y escritura separadas.
type InventoryRepository interface {
	Create(ctx context.Context, inv *entity.Inventory) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Inventory, error)
	// Get devuelve nil, nil si no existe fila para (tenant, sucursal, producto).
	Get(ctx context.Context, tenantID, branchID, productID string) (*entity.Inventory, error)
	List(ctx context.Context, tenantID, branchID string) ([]InventoryRow, error)
	ListLowStock(ctx context.Context, tenantID, branchID string) ([]InventoryRow, error)

	// DecrementQty resta n solo si qty >= n. ErrNotFound si no hay fila; ErrInsufficientStock si no alcanza.
	DecrementQty(ctx context.Context, tenantID, branchID, productID string, n int) error
	// IncrementQty suma n; devuelve false si la fila no existe (no la crea).
	IncrementQty(ctx context.Context, tenantID, branchID, productID string, n int) (bool, error)
	// AddOrCreate suma inv.Qty a la fila existente o la crea con inv.Qty y inv.MinStockAlert.
	AddOrCreate(ctx context.Context, inv *entity.Inventory) error
	// Adjust aplica un delta (isDelta) o fija qty absoluta; ErrInsufficientStock si el resultado sería negativo.
	Adjust(ctx context.Context, tenantID, id string, qty int, isDelta bool) (*entity.Inventory, error)
}
