package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para los reportes.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el repositorio de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: guard(q)}
}

func (r *ReportRepo) PaidTransactions(ctx context.Context, s repository.ReportScope) ([]repository.TransactionView, error) {
	const query = `
		SELECT ` + headerColumns + `, b.name
		FROM transaction_headers h
		JOIN branches b ON b.id = h.branch_id
		WHERE h.tenant_id = $1
		  AND ($2 = '' OR h.branch_id::text = $2)
		  AND h.status = 'PAID'
		  AND h.created_at >= $3 AND h.created_at < $4
		ORDER BY h.created_at DESC`
	return r.views(ctx, query, s.TenantID, s.BranchID, s.From, s.To)
}

func (r *ReportRepo) VehicleHistory(ctx context.Context, tenantID, plate string) ([]repository.TransactionView, error) {
	const query = `
		SELECT ` + headerColumns + `, b.name
		FROM transaction_headers h
		JOIN branches b ON b.id = h.branch_id
		WHERE h.tenant_id = $1 AND upper(h.customer_plate) = upper($2)
		ORDER BY h.created_at DESC`
	return r.views(ctx, query, tenantID, plate)
}

// views carga cabeceras y luego todas sus líneas en una sola consulta.
func (r *ReportRepo) views(ctx context.Context, query string, args ...any) ([]repository.TransactionView, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("report headers: %w", err)
	}
	out := []repository.TransactionView{}
	index := map[string]int{}
	var ids []string
	for rows.Next() {
		var v repository.TransactionView
		h, err := scanHeader(rows, &v.BranchName)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan report header: %w", err)
		}
		v.TransactionHeader = *h
		v.Details = []repository.DetailView{}
		index[h.ID] = len(out)
		ids = append(ids, h.ID)
		out = append(out, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	drows, err := r.q.Query(ctx, detailViewQuery+` WHERE d.transaction_id::text = ANY($1) ORDER BY d.created_at, d.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("report details: %w", err)
	}
	defer drows.Close()
	for drows.Next() {
		d, err := scanDetailView(drows)
		if err != nil {
			return nil, fmt.Errorf("scan report detail: %w", err)
		}
		i := index[d.TransactionID]
		out[i].Details = append(out[i].Details, d)
	}
	return out, drows.Err()
}

func (r *ReportRepo) MechanicCommissions(ctx context.Context, s repository.ReportScope) ([]repository.MechanicCommissionRow, error) {
	const query = `
		SELECT m.id, m.name, mb.name, COUNT(d.id), COALESCE(SUM(d.mechanic_fee), 0)
		FROM transaction_details d
		JOIN transaction_headers h ON h.id = d.transaction_id
		JOIN mechanics m ON m.id = d.mechanic_id
		LEFT JOIN branches mb ON mb.id = m.branch_id
		WHERE h.tenant_id = $1
		  AND ($2 = '' OR h.branch_id::text = $2)
		  AND h.status = 'PAID'
		  AND h.created_at >= $3 AND h.created_at < $4
		GROUP BY m.id, m.name, mb.name
		HAVING COUNT(d.id) > 0
		ORDER BY SUM(d.mechanic_fee) DESC, m.name`
	rows, err := r.q.Query(ctx, query, s.TenantID, s.BranchID, s.From, s.To)
	if err != nil {
		return nil, fmt.Errorf("mechanic commissions: %w", err)
	}
	defer rows.Close()
	out := []repository.MechanicCommissionRow{}
	for rows.Next() {
		var row repository.MechanicCommissionRow
		if err := rows.Scan(&row.MechanicID, &row.MechanicName, &row.BranchName, &row.TotalJobs, &row.TotalCommission); err != nil {
			return nil, fmt.Errorf("scan mechanic commission: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *ReportRepo) TopProducts(ctx context.Context, s repository.ReportScope, limit int) ([]repository.TopProductRow, error) {
	const query = `
		SELECT p.id, p.sku, p.name, p.type, SUM(d.qty), SUM(d.subtotal), COUNT(DISTINCT h.id)
		FROM transaction_details d
		JOIN transaction_headers h ON h.id = d.transaction_id
		JOIN products p ON p.id = d.product_id
		WHERE h.tenant_id = $1
		  AND ($2 = '' OR h.branch_id::text = $2)
		  AND h.status = 'PAID'
		  AND h.created_at >= $3 AND h.created_at < $4
		GROUP BY p.id, p.sku, p.name, p.type
		ORDER BY SUM(d.qty) DESC, SUM(d.subtotal) DESC
		LIMIT $5`
	rows, err := r.q.Query(ctx, query, s.TenantID, s.BranchID, s.From, s.To, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()
	out := []repository.TopProductRow{}
	for rows.Next() {
		var row repository.TopProductRow
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.Name, &row.Type, &row.TotalQty, &row.TotalRevenue, &row.TransactionCount); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
