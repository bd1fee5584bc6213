package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/bengkel-pos/internal/domain"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

var _ repository.DraftTransactionRepository = (*DraftRepo)(nil)

// DraftRepo persistencia de borradores; las líneas se guardan como JSONB opaco.
type DraftRepo struct {
	q Querier
}

// NewDraftRepository construye el repositorio. Pasar pool o tx.
func NewDraftRepository(q Querier) *DraftRepo {
	return &DraftRepo{q: guard(q)}
}

const draftColumns = `id, tenant_id, branch_id, customer_plate, total_amount, draft_data, created_by, created_at, updated_at`

func scanDraft(row pgx.Row) (*entity.DraftTransaction, error) {
	var d entity.DraftTransaction
	err := row.Scan(&d.ID, &d.TenantID, &d.BranchID, &d.CustomerPlate, &d.TotalAmount, &d.DraftData,
		&d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DraftRepo) Create(ctx context.Context, d *entity.DraftTransaction) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO draft_transactions (`+draftColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.TenantID, d.BranchID, d.CustomerPlate, d.TotalAmount, string(d.DraftData), d.CreatedBy,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

func (r *DraftRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.DraftTransaction, error) {
	d, err := scanDraft(r.q.QueryRow(ctx,
		`SELECT `+draftColumns+` FROM draft_transactions WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return d, nil
}

func (r *DraftRepo) List(ctx context.Context, f repository.DraftFilter) ([]*entity.DraftTransaction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+draftColumns+` FROM draft_transactions
		WHERE tenant_id = $1
		  AND ($2 = '' OR branch_id::text = $2)
		  AND ($3 = '' OR created_by::text = $3)
		ORDER BY updated_at DESC`, f.TenantID, f.BranchID, f.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()
	var out []*entity.DraftTransaction
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DraftRepo) Update(ctx context.Context, d *entity.DraftTransaction) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE draft_transactions SET customer_plate = $3, total_amount = $4, draft_data = $5, updated_at = $6
		WHERE tenant_id = $1 AND id = $2`,
		d.TenantID, d.ID, d.CustomerPlate, d.TotalAmount, string(d.DraftData), d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DraftRepo) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM draft_transactions WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
