package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo libro de transferencias entre sucursales (solo inserción).
type StockTransferRepo struct {
	q Querier
}

// NewStockTransferRepository construye el repositorio. Pasar pool o tx.
func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: guard(q)}
}

func (r *StockTransferRepo) Create(ctx context.Context, t *entity.StockTransfer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_transfers (id, tenant_id, product_id, from_branch_id, to_branch_id, qty, notes, transferred_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.TenantID, t.ProductID, t.FromBranchID, t.ToBranchID, t.Qty, t.Notes, t.TransferredBy, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock transfer: %w", err)
	}
	return nil
}

const transferViewQuery = `
	SELECT t.id, t.tenant_id, t.product_id, t.from_branch_id, t.to_branch_id, t.qty, t.notes, t.transferred_by, t.created_at,
	       p.name, p.sku, fb.name, tb.name
	FROM stock_transfers t
	JOIN products p  ON p.id = t.product_id
	JOIN branches fb ON fb.id = t.from_branch_id
	JOIN branches tb ON tb.id = t.to_branch_id`

func scanTransferView(row pgx.Row) (*repository.StockTransferView, error) {
	var v repository.StockTransferView
	err := row.Scan(&v.ID, &v.TenantID, &v.ProductID, &v.FromBranchID, &v.ToBranchID, &v.Qty, &v.Notes,
		&v.TransferredBy, &v.CreatedAt, &v.ProductName, &v.ProductSKU, &v.FromBranchName, &v.ToBranchName)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *StockTransferRepo) GetByID(ctx context.Context, tenantID, id string) (*repository.StockTransferView, error) {
	v, err := scanTransferView(r.q.QueryRow(ctx, transferViewQuery+` WHERE t.tenant_id = $1 AND t.id = $2`, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}
	return v, nil
}

func (r *StockTransferRepo) List(ctx context.Context, f repository.StockTransferFilter) ([]repository.StockTransferView, error) {
	rows, err := r.q.Query(ctx, transferViewQuery+`
		WHERE t.tenant_id = $1
		  AND ($2 = '' OR t.from_branch_id::text = $2 OR t.to_branch_id::text = $2)
		  AND ($3 = '' OR t.product_id::text = $3)
		ORDER BY t.created_at DESC`, f.TenantID, f.BranchID, f.ProductID)
	if err != nil {
		return nil, fmt.Errorf("list stock transfers: %w", err)
	}
	defer rows.Close()
	out := []repository.StockTransferView{}
	for rows.Next() {
		v, err := scanTransferView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock transfer: %w", err)
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}
