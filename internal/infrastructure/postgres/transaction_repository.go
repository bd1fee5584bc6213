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

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo persistencia de cabeceras y líneas de venta.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el repositorio. Pasar pool o tx.
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: guard(q)}
}

const headerColumns = `h.id, h.tenant_id, h.branch_id, h.customer_plate, h.total_amount, h.status, h.created_by, h.created_at, h.updated_at`

func scanHeader(row pgx.Row, extra ...any) (*entity.TransactionHeader, error) {
	var h entity.TransactionHeader
	dest := append([]any{&h.ID, &h.TenantID, &h.BranchID, &h.CustomerPlate, &h.TotalAmount, &h.Status,
		&h.CreatedBy, &h.CreatedAt, &h.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *TransactionRepo) CreateHeader(ctx context.Context, h *entity.TransactionHeader) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO transaction_headers (id, tenant_id, branch_id, customer_plate, total_amount, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		h.ID, h.TenantID, h.BranchID, h.CustomerPlate, h.TotalAmount, h.Status, h.CreatedBy, h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction header: %w", err)
	}
	return nil
}

// CreateDetails inserta todas las líneas en un solo round-trip (pgx.Batch).
func (r *TransactionRepo) CreateDetails(ctx context.Context, details []*entity.TransactionDetail) error {
	if len(details) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, d := range details {
		batch.Queue(`
			INSERT INTO transaction_details (id, transaction_id, product_id, qty, price_at_moment, subtotal, mechanic_id, mechanic_fee, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			d.ID, d.TransactionID, d.ProductID, d.Qty, d.PriceAtMoment, d.Subtotal, d.MechanicID, d.MechanicFee, d.CreatedAt)
	}
	br := r.q.SendBatch(ctx, batch)
	for range details {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: producto o mecánico de la línea", domain.ErrNotFound)
			}
			return fmt.Errorf("insert transaction detail: %w", err)
		}
	}
	return br.Close()
}

func (r *TransactionRepo) GetByID(ctx context.Context, tenantID, id string) (*repository.TransactionView, error) {
	var view repository.TransactionView
	h, err := scanHeader(r.q.QueryRow(ctx, `
		SELECT `+headerColumns+`, b.name
		FROM transaction_headers h
		JOIN branches b ON b.id = h.branch_id
		WHERE h.tenant_id = $1 AND h.id = $2`, tenantID, id), &view.BranchName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	view.TransactionHeader = *h
	details, err := r.ListDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	view.Details = details
	return &view, nil
}

func (r *TransactionRepo) GetHeaderForUpdate(ctx context.Context, tenantID, id string) (*entity.TransactionHeader, error) {
	h, err := scanHeader(r.q.QueryRow(ctx, `
		SELECT `+headerColumns+` FROM transaction_headers h
		WHERE h.tenant_id = $1 AND h.id = $2
		FOR UPDATE`, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock transaction: %w", err)
	}
	return h, nil
}

const detailViewQuery = `
	SELECT d.id, d.transaction_id, d.product_id, d.qty, d.price_at_moment, d.subtotal, d.mechanic_id, d.mechanic_fee, d.created_at,
	       p.name, p.sku, p.type, m.name,
	       COALESCE((SELECT SUM(r.qty) FROM transaction_returns r WHERE r.transaction_detail_id = d.id), 0)
	FROM transaction_details d
	JOIN products p ON p.id = d.product_id
	LEFT JOIN mechanics m ON m.id = d.mechanic_id`

func scanDetailView(row pgx.Row) (repository.DetailView, error) {
	var v repository.DetailView
	err := row.Scan(&v.ID, &v.TransactionID, &v.ProductID, &v.Qty, &v.PriceAtMoment, &v.Subtotal,
		&v.MechanicID, &v.MechanicFee, &v.CreatedAt, &v.ProductName, &v.ProductSKU, &v.ProductType,
		&v.MechanicName, &v.ReturnedQty)
	return v, err
}

func (r *TransactionRepo) ListDetails(ctx context.Context, transactionID string) ([]repository.DetailView, error) {
	rows, err := r.q.Query(ctx, detailViewQuery+` WHERE d.transaction_id = $1 ORDER BY d.created_at, d.id`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list transaction details: %w", err)
	}
	defer rows.Close()
	out := []repository.DetailView{}
	for rows.Next() {
		v, err := scanDetailView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction detail: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetDetailForUpdate bloquea la línea; las devoluciones concurrentes sobre la misma línea se serializan aquí.
func (r *TransactionRepo) GetDetailForUpdate(ctx context.Context, tenantID, detailID string) (*repository.DetailForReturn, error) {
	var d repository.DetailForReturn
	err := r.q.QueryRow(ctx, `
		SELECT d.id, d.transaction_id, d.product_id, d.qty, d.price_at_moment, d.subtotal, d.mechanic_id, d.mechanic_fee, d.created_at,
		       h.tenant_id, h.branch_id, h.status, p.type
		FROM transaction_details d
		JOIN transaction_headers h ON h.id = d.transaction_id
		JOIN products p ON p.id = d.product_id
		WHERE d.id = $1 AND h.tenant_id = $2
		FOR UPDATE OF d`, detailID, tenantID,
	).Scan(&d.ID, &d.TransactionID, &d.ProductID, &d.Qty, &d.PriceAtMoment, &d.Subtotal, &d.MechanicID,
		&d.MechanicFee, &d.CreatedAt, &d.TenantID, &d.BranchID, &d.TransactionStatus, &d.ProductType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock transaction detail: %w", err)
	}
	return &d, nil
}

func (r *TransactionRepo) UpdateStatus(ctx context.Context, tenantID, id, status string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE transaction_headers SET status = $3, updated_at = $4
		WHERE tenant_id = $1 AND id = $2`, tenantID, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]repository.TransactionSummary, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+headerColumns+`, b.name,
		       (SELECT COUNT(*) FROM transaction_details d WHERE d.transaction_id = h.id)
		FROM transaction_headers h
		JOIN branches b ON b.id = h.branch_id
		WHERE h.tenant_id = $1
		  AND ($2 = '' OR h.branch_id::text = $2)
		  AND ($3 = '' OR h.status = $3)
		ORDER BY h.created_at DESC
		LIMIT $4`, f.TenantID, f.BranchID, f.Status, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var out []repository.TransactionSummary
	for rows.Next() {
		var s repository.TransactionSummary
		h, err := scanHeader(rows, &s.BranchName, &s.DetailCount)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		s.TransactionHeader = *h
		out = append(out, s)
	}
	return out, rows.Err()
}
