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

var _ repository.MechanicRepository = (*MechanicRepo)(nil)

// MechanicRepo implementación del puerto MechanicRepository sobre PostgreSQL.
type MechanicRepo struct {
	q Querier
}

// NewMechanicRepository construye el adaptador de persistencia para mecánicos.
func NewMechanicRepository(q Querier) *MechanicRepo {
	return &MechanicRepo{q: guard(q)}
}

const mechanicColumns = `id, tenant_id, branch_id, name, phone, is_active, created_at, updated_at`

func scanMechanic(row pgx.Row) (*entity.Mechanic, error) {
	var m entity.Mechanic
	if err := row.Scan(&m.ID, &m.TenantID, &m.BranchID, &m.Name, &m.Phone, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MechanicRepo) Create(ctx context.Context, m *entity.Mechanic) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO mechanics (id, tenant_id, branch_id, name, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.TenantID, m.BranchID, m.Name, m.Phone, m.IsActive, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert mechanic: %w", err)
	}
	return nil
}

func (r *MechanicRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Mechanic, error) {
	m, err := scanMechanic(r.q.QueryRow(ctx,
		`SELECT `+mechanicColumns+` FROM mechanics WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get mechanic: %w", err)
	}
	return m, nil
}

// List los mecánicos sin sucursal aparecen en cualquier filtro por sucursal.
func (r *MechanicRepo) List(ctx context.Context, f repository.MechanicFilter) ([]*entity.Mechanic, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+mechanicColumns+` FROM mechanics
		WHERE tenant_id = $1
		  AND ($2 = '' OR branch_id IS NULL OR branch_id::text = $2)
		  AND (NOT $3 OR is_active)
		ORDER BY name`, f.TenantID, f.BranchID, f.ActiveOnly)
	if err != nil {
		return nil, fmt.Errorf("list mechanics: %w", err)
	}
	defer rows.Close()
	var out []*entity.Mechanic
	for rows.Next() {
		m, err := scanMechanic(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mechanic: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MechanicRepo) Update(ctx context.Context, m *entity.Mechanic) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE mechanics SET branch_id = $3, name = $4, phone = $5, is_active = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2`,
		m.TenantID, m.ID, m.BranchID, m.Name, m.Phone, m.IsActive, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update mechanic: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MechanicRepo) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM mechanics WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete mechanic: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
