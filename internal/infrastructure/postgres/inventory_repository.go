package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/bengkel-pos/internal/domain"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo adaptador de inventario por sucursal. Cada cambio de qty es un único UPDATE condicional.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el repositorio. Pasar pool o tx.
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: guard(q)}
}

const inventoryColumns = `id, tenant_id, branch_id, product_id, qty, min_stock_alert, updated_at`

func scanInventory(row pgx.Row) (*entity.Inventory, error) {
	var inv entity.Inventory
	if err := row.Scan(&inv.ID, &inv.TenantID, &inv.BranchID, &inv.ProductID, &inv.Qty, &inv.MinStockAlert, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory (`+inventoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		inv.ID, inv.TenantID, inv.BranchID, inv.ProductID, inv.Qty, inv.MinStockAlert, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

func (r *InventoryRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Inventory, error) {
	inv, err := scanInventory(r.q.QueryRow(ctx,
		`SELECT `+inventoryColumns+` FROM inventory WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return inv, nil
}

func (r *InventoryRepo) Get(ctx context.Context, tenantID, branchID, productID string) (*entity.Inventory, error) {
	inv, err := scanInventory(r.q.QueryRow(ctx, `
		SELECT `+inventoryColumns+` FROM inventory
		WHERE tenant_id = $1 AND branch_id = $2 AND product_id = $3`, tenantID, branchID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory row: %w", err)
	}
	return inv, nil
}

const inventoryRowQuery = `
	SELECT i.id, i.tenant_id, i.branch_id, i.product_id, i.qty, i.min_stock_alert, i.updated_at,
	       p.sku, p.name, p.type, b.name
	FROM inventory i
	JOIN products p ON p.id = i.product_id
	JOIN branches b ON b.id = i.branch_id
	WHERE i.tenant_id = $1 AND ($2 = '' OR i.branch_id::text = $2)`

func (r *InventoryRepo) listRows(ctx context.Context, query string, args ...any) ([]repository.InventoryRow, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var out []repository.InventoryRow
	for rows.Next() {
		var row repository.InventoryRow
		if err := rows.Scan(&row.ID, &row.TenantID, &row.BranchID, &row.ProductID, &row.Qty,
			&row.MinStockAlert, &row.UpdatedAt, &row.SKU, &row.ProductName, &row.ProductType, &row.BranchName); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *InventoryRepo) List(ctx context.Context, tenantID, branchID string) ([]repository.InventoryRow, error) {
	return r.listRows(ctx, inventoryRowQuery+` ORDER BY b.name, p.name`, tenantID, branchID)
}

// ListLowStock filas en o bajo su umbral, ordenadas por menor existencia.
func (r *InventoryRepo) ListLowStock(ctx context.Context, tenantID, branchID string) ([]repository.InventoryRow, error) {
	return r.listRows(ctx, inventoryRowQuery+` AND i.qty <= i.min_stock_alert ORDER BY i.qty ASC, p.name`, tenantID, branchID)
}

// DecrementQty resta solo si alcanza; si no afecta filas distingue entre fila inexistente y stock insuficiente.
func (r *InventoryRepo) DecrementQty(ctx context.Context, tenantID, branchID, productID string, n int) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventory SET qty = qty - $4, updated_at = $5
		WHERE tenant_id = $1 AND branch_id = $2 AND product_id = $3 AND qty >= $4`,
		tenantID, branchID, productID, n, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("decrement inventory: %w", err)
	}
	if cmd.RowsAffected() == 1 {
		return nil
	}
	inv, err := r.Get(ctx, tenantID, branchID, productID)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w. Disponible: %d", domain.ErrInsufficientStock, inv.Qty)
}

func (r *InventoryRepo) IncrementQty(ctx context.Context, tenantID, branchID, productID string, n int) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventory SET qty = qty + $4, updated_at = $5
		WHERE tenant_id = $1 AND branch_id = $2 AND product_id = $3`,
		tenantID, branchID, productID, n, time.Now(),
	)
	if err != nil {
		return false, fmt.Errorf("increment inventory: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// AddOrCreate upsert atómico sobre (tenant, sucursal, producto).
func (r *InventoryRepo) AddOrCreate(ctx context.Context, inv *entity.Inventory) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO inventory (`+inventoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id, branch_id, product_id)
		DO UPDATE SET qty = inventory.qty + EXCLUDED.qty, updated_at = EXCLUDED.updated_at
		RETURNING id, qty, min_stock_alert`,
		inv.ID, inv.TenantID, inv.BranchID, inv.ProductID, inv.Qty, inv.MinStockAlert, inv.UpdatedAt,
	).Scan(&inv.ID, &inv.Qty, &inv.MinStockAlert)
	if err != nil {
		return fmt.Errorf("upsert inventory: %w", err)
	}
	return nil
}

// Adjust delta o valor absoluto en una sola sentencia; el resultado nunca queda negativo.
func (r *InventoryRepo) Adjust(ctx context.Context, tenantID, id string, qty int, isDelta bool) (*entity.Inventory, error) {
	inv, err := scanInventory(r.q.QueryRow(ctx, `
		UPDATE inventory
		SET qty = CASE WHEN $4 THEN qty + $3 ELSE $3 END, updated_at = $5
		WHERE tenant_id = $1 AND id = $2 AND (CASE WHEN $4 THEN qty + $3 ELSE $3 END) >= 0
		RETURNING `+inventoryColumns,
		tenantID, id, qty, isDelta, time.Now(),
	))
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("adjust inventory: %w", err)
	}
	current, err := r.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	return nil, fmt.Errorf("%w. Disponible: %d", domain.ErrInsufficientStock, current.Qty)
}
