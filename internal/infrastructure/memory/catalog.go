package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/bengkel-pos/internal/domain"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

// ── Tenants ──────────────────────────────────────────────────────────────────

type tenantRepo struct{ s *Store }

func (r tenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.tenants[t.ID]; ok {
			return domain.ErrDuplicate
		}
		d.tenants[t.ID] = *t
		return nil
	})
}

func (r tenantRepo) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	var out *entity.Tenant
	r.s.read(func(d *dataset) {
		if t, ok := d.tenants[id]; ok {
			out = &t
		}
	})
	return out, nil
}

func (r tenantRepo) List(_ context.Context) ([]*entity.Tenant, error) {
	var out []*entity.Tenant
	r.s.read(func(d *dataset) {
		for _, t := range d.tenants {
			t := t
			out = append(out, &t)
		}
	})
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

func (r tenantRepo) Update(_ context.Context, t *entity.Tenant) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.tenants[t.ID]; !ok {
			return domain.ErrNotFound
		}
		d.tenants[t.ID] = *t
		return nil
	})
}

// Delete borra el tenant y todo lo que cuelga de él.
func (r tenantRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.tenants[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.tenants, id)
		for k, v := range d.branches {
			if v.TenantID == id {
				delete(d.branches, k)
			}
		}
		for k, v := range d.users {
			if ptrEq(v.TenantID, id) {
				delete(d.users, k)
			}
		}
		for k, v := range d.mechanics {
			if v.TenantID == id {
				delete(d.mechanics, k)
			}
		}
		for k, v := range d.products {
			if v.TenantID == id {
				delete(d.products, k)
			}
		}
		for k, v := range d.inventory {
			if v.TenantID == id {
				delete(d.inventory, k)
			}
		}
		for k, v := range d.headers {
			if v.TenantID != id {
				continue
			}
			delete(d.headers, k)
			for dk, dv := range d.details {
				if dv.TransactionID == k {
					delete(d.details, dk)
					for rk, rv := range d.returns {
						if rv.TransactionDetailID == dk {
							delete(d.returns, rk)
						}
					}
				}
			}
		}
		for k, v := range d.drafts {
			if v.TenantID == id {
				delete(d.drafts, k)
			}
		}
		for k, v := range d.transfers {
			if v.TenantID == id {
				delete(d.transfers, k)
			}
		}
		return nil
	})
}

func (r tenantRepo) IsActive(_ context.Context, id string) (bool, error) {
	var active bool
	r.s.read(func(d *dataset) {
		active = d.tenants[id].IsActive
	})
	return active, nil
}

// ── Branches ─────────────────────────────────────────────────────────────────

type branchRepo struct{ s *Store }

func (r branchRepo) Create(_ context.Context, b *entity.Branch) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.tenants[b.TenantID]; !ok {
			return fmt.Errorf("%w: tenant inexistente", domain.ErrNotFound)
		}
		d.branches[b.ID] = *b
		return nil
	})
}

func (r branchRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Branch, error) {
	var out *entity.Branch
	r.s.read(func(d *dataset) {
		if b, ok := d.branches[id]; ok && b.TenantID == tenantID {
			out = &b
		}
	})
	return out, nil
}

func (r branchRepo) ListByTenant(_ context.Context, tenantID string) ([]*entity.Branch, error) {
	var out []*entity.Branch
	r.s.read(func(d *dataset) {
		for _, b := range d.branches {
			b := b
			if b.TenantID == tenantID {
				out = append(out, &b)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r branchRepo) Update(_ context.Context, b *entity.Branch) error {
	return r.s.write(func(d *dataset) error {
		cur, ok := d.branches[b.ID]
		if !ok || cur.TenantID != b.TenantID {
			return domain.ErrNotFound
		}
		d.branches[b.ID] = *b
		return nil
	})
}

func (r branchRepo) Delete(_ context.Context, tenantID, id string) error {
	return r.s.write(func(d *dataset) error {
		cur, ok := d.branches[id]
		if !ok || cur.TenantID != tenantID {
			return domain.ErrNotFound
		}
		for _, h := range d.headers {
			if h.BranchID == id {
				return fmt.Errorf("%w: la sucursal tiene transacciones o transferencias", domain.ErrConflict)
			}
		}
		for _, t := range d.transfers {
			if t.FromBranchID == id || t.ToBranchID == id {
				return fmt.Errorf("%w: la sucursal tiene transacciones o transferencias", domain.ErrConflict)
			}
		}
		delete(d.branches, id)
		for k, v := range d.inventory {
			if v.BranchID == id {
				delete(d.inventory, k)
			}
		}
		for k, v := range d.drafts {
			if v.BranchID == id {
				delete(d.drafts, k)
			}
		}
		for k, v := range d.users {
			if ptrEq(v.BranchID, id) {
				v.BranchID = nil
				d.users[k] = v
			}
		}
		for k, v := range d.mechanics {
			if ptrEq(v.BranchID, id) {
				v.BranchID = nil
				d.mechanics[k] = v
			}
		}
		return nil
	})
}

// ── Users ────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	return r.s.write(func(d *dataset) error {
		for _, existing := range d.users {
			if existing.Username == u.Username {
				return domain.ErrDuplicate
			}
		}
		d.users[u.ID] = *u
		return nil
	})
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.s.read(func(d *dataset) {
		if u, ok := d.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	r.s.read(func(d *dataset) {
		for _, u := range d.users {
			u := u
			if u.Username == username {
				out = &u
				return
			}
		}
	})
	return out, nil
}

func (r userRepo) List(_ context.Context, tenantID string) ([]*entity.User, error) {
	var out []*entity.User
	r.s.read(func(d *dataset) {
		for _, u := range d.users {
			u := u
			if tenantID == "" || ptrEq(u.TenantID, tenantID) {
				out = append(out, &u)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

func (r userRepo) Update(_ context.Context, u *entity.User) error {
	return r.s.write(func(d *dataset) error {
		cur, ok := d.users[u.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for id, existing := range d.users {
			if id != u.ID && existing.Username == u.Username {
				return domain.ErrDuplicate
			}
		}
		u.TenantID = cur.TenantID
		u.LastLogin = cur.LastLogin
		d.users[u.ID] = *u
		return nil
	})
}

func (r userRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	return r.s.write(func(d *dataset) error {
		u, ok := d.users[id]
		if !ok {
			return nil
		}
		u.LastLogin = &at
		d.users[id] = u
		return nil
	})
}

func (r userRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.users[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.users, id)
		return nil
	})
}

// ── Mechanics ────────────────────────────────────────────────────────────────

type mechanicRepo struct{ s *Store }

func (r mechanicRepo) Create(_ context.Context, m *entity.Mechanic) error {
	return r.s.write(func(d *dataset) error {
		d.mechanics[m.ID] = *m
		return nil
	})
}

func (r mechanicRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Mechanic, error) {
	var out *entity.Mechanic
	r.s.read(func(d *dataset) {
		if m, ok := d.mechanics[id]; ok && m.TenantID == tenantID {
			out = &m
		}
	})
	return out, nil
}

func (r mechanicRepo) List(_ context.Context, f repository.MechanicFilter) ([]*entity.Mechanic, error) {
	var out []*entity.Mechanic
	r.s.read(func(d *dataset) {
		for _, m := range d.mechanics {
			m := m
			if m.TenantID != f.TenantID {
				continue
			}
			if f.BranchID != "" && m.BranchID != nil && *m.BranchID != f.BranchID {
				continue
			}
			if f.ActiveOnly && !m.IsActive {
				continue
			}
			out = append(out, &m)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r mechanicRepo) Update(_ context.Context, m *entity.Mechanic) error {
	return r.s.write(func(d *dataset) error {
		cur, ok := d.mechanics[m.ID]
		if !ok || cur.TenantID != m.TenantID {
			return domain.ErrNotFound
		}
		d.mechanics[m.ID] = *m
		return nil
	})
}

func (r mechanicRepo) Delete(_ context.Context, tenantID, id string) error {
	return r.s.write(func(d *dataset) error {
		cur, ok := d.mechanics[id]
		if !ok || cur.TenantID != tenantID {
			return domain.ErrNotFound
		}
		delete(d.mechanics, id)
		for k, v := range d.details {
			if ptrEq(v.MechanicID, id) {
				v.MechanicID = nil
				d.details[k] = v
			}
		}
		return nil
	})
}

// ── Products ─────────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func skuTaken(d *dataset, p *entity.Product) bool {
	for id, existing := range d.products {
		if id != p.ID && existing.TenantID == p.TenantID && existing.SKU == p.SKU {
			return true
		}
	}
	return false
}

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.s.write(func(d *dataset) error {
		if skuTaken(d, p) {
			return domain.ErrDuplicate
		}
		d.products[p.ID] = *p
		return nil
	})
}

func (r productRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	var out *entity.Product
	r.s.read(func(d *dataset) {
		if p, ok := d.products[id]; ok && p.TenantID == tenantID {
			out = &p
		}
	})
	return out, nil
}

func (r productRepo) GetBySKU(_ context.Context, tenantID, sku string) (*entity.Product, error) {
	var out *entity.Product
	r.s.read(func(d *dataset) {
		for _, p := range d.products {
			p := p
			if p.TenantID == tenantID && p.SKU == sku {
				out = &p
				return
			}
		}
	})
	return out, nil
}

func (r productRepo) filter(tenantID string, keep func(p entity.Product) bool) []*entity.Product {
	var out []*entity.Product
	r.s.read(func(d *dataset) {
		for _, p := range d.products {
			p := p
			if p.TenantID == tenantID && keep(p) {
				out = append(out, &p)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (r productRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*entity.Product, error) {
	all := r.filter(tenantID, func(entity.Product) bool { return true })
	return page(all, limit, offset), nil
}

func (r productRepo) Search(_ context.Context, tenantID, q string, limit int) ([]*entity.Product, error) {
	needle := strings.ToLower(q)
	found := r.filter(tenantID, func(p entity.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle) || strings.Contains(strings.ToLower(p.SKU), needle)
	})
	return page(found, limit, 0), nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.s.write(func(d *dataset) error {
		cur, ok := d.products[p.ID]
		if !ok || cur.TenantID != p.TenantID {
			return domain.ErrNotFound
		}
		if skuTaken(d, p) {
			return domain.ErrDuplicate
		}
		d.products[p.ID] = *p
		return nil
	})
}

func (r productRepo) Delete(_ context.Context, tenantID, id string) error {
	return r.s.write(func(d *dataset) error {
		cur, ok := d.products[id]
		if !ok || cur.TenantID != tenantID {
			return domain.ErrNotFound
		}
		for _, det := range d.details {
			if det.ProductID == id {
				return fmt.Errorf("%w: el producto aparece en ventas o transferencias", domain.ErrConflict)
			}
		}
		for _, t := range d.transfers {
			if t.ProductID == id {
				return fmt.Errorf("%w: el producto aparece en ventas o transferencias", domain.ErrConflict)
			}
		}
		delete(d.products, id)
		for k, v := range d.inventory {
			if v.ProductID == id {
				delete(d.inventory, k)
			}
		}
		return nil
	})
}
