package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo persistencia de devoluciones.
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el repositorio. Pasar pool o tx.
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: guard(q)}
}

func (r *ReturnRepo) Create(ctx context.Context, ret *entity.TransactionReturn) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO transaction_returns (id, transaction_detail_id, qty, reason, notes, returned_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ret.ID, ret.TransactionDetailID, ret.Qty, ret.Reason, ret.Notes, ret.ReturnedBy, ret.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert return: %w", err)
	}
	return nil
}

func (r *ReturnRepo) SumQtyByDetail(ctx context.Context, detailID string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(qty), 0) FROM transaction_returns WHERE transaction_detail_id = $1`, detailID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum returns: %w", err)
	}
	return total, nil
}

func (r *ReturnRepo) List(ctx context.Context, tenantID, transactionID string) ([]repository.ReturnView, error) {
	rows, err := r.q.Query(ctx, `
		SELECT r.id, r.transaction_detail_id, r.qty, r.reason, r.notes, r.returned_by, r.created_at,
		       d.transaction_id, d.product_id, p.name, p.sku
		FROM transaction_returns r
		JOIN transaction_details d ON d.id = r.transaction_detail_id
		JOIN transaction_headers h ON h.id = d.transaction_id
		JOIN products p ON p.id = d.product_id
		WHERE h.tenant_id = $1 AND ($2 = '' OR h.id::text = $2)
		ORDER BY r.created_at DESC`, tenantID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()
	out := []repository.ReturnView{}
	for rows.Next() {
		var v repository.ReturnView
		if err := rows.Scan(&v.ID, &v.TransactionDetailID, &v.Qty, &v.Reason, &v.Notes, &v.ReturnedBy,
			&v.CreatedAt, &v.TransactionID, &v.ProductID, &v.ProductName, &v.ProductSKU); err != nil {
			return nil, fmt.Errorf("scan return: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
