package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/bengkel-pos/internal/domain"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

// ── Transactions ─────────────────────────────────────────────────────────────

type transactionRepo struct{ s *Store }

func (r transactionRepo) CreateHeader(_ context.Context, h *entity.TransactionHeader) error {
	return r.s.write(func(d *dataset) error {
		d.headers[h.ID] = *h
		return nil
	})
}

func (r transactionRepo) CreateDetails(_ context.Context, details []*entity.TransactionDetail) error {
	return r.s.write(func(d *dataset) error {
		for _, det := range details {
			if _, ok := d.headers[det.TransactionID]; !ok {
				return domain.ErrNotFound
			}
			d.details[det.ID] = *det
		}
		return nil
	})
}

func returnedQty(d *dataset, detailID string) int {
	total := 0
	for _, ret := range d.returns {
		if ret.TransactionDetailID == detailID {
			total += ret.Qty
		}
	}
	return total
}

func detailViews(d *dataset, transactionID string) []repository.DetailView {
	out := []repository.DetailView{}
	for _, det := range d.details {
		if det.TransactionID != transactionID {
			continue
		}
		p := d.products[det.ProductID]
		v := repository.DetailView{
			TransactionDetail: det,
			ProductName:       p.Name,
			ProductSKU:        p.SKU,
			ProductType:       p.Type,
			ReturnedQty:       returnedQty(d, det.ID),
		}
		if det.MechanicID != nil {
			if m, ok := d.mechanics[*det.MechanicID]; ok {
				name := m.Name
				v.MechanicName = &name
			}
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func transactionView(d *dataset, h entity.TransactionHeader) repository.TransactionView {
	return repository.TransactionView{
		TransactionHeader: h,
		BranchName:        d.branches[h.BranchID].Name,
		Details:           detailViews(d, h.ID),
	}
}

func (r transactionRepo) GetByID(_ context.Context, tenantID, id string) (*repository.TransactionView, error) {
	var out *repository.TransactionView
	r.s.read(func(d *dataset) {
		if h, ok := d.headers[id]; ok && h.TenantID == tenantID {
			v := transactionView(d, h)
			out = &v
		}
	})
	return out, nil
}

// GetHeaderForUpdate dentro de una unidad el store ya está serializado; no hace falta bloqueo extra.
func (r transactionRepo) GetHeaderForUpdate(_ context.Context, tenantID, id string) (*entity.TransactionHeader, error) {
	var out *entity.TransactionHeader
	r.s.read(func(d *dataset) {
		if h, ok := d.headers[id]; ok && h.TenantID == tenantID {
			out = &h
		}
	})
	return out, nil
}

func (r transactionRepo) ListDetails(_ context.Context, transactionID string) ([]repository.DetailView, error) {
	var out []repository.DetailView
	r.s.read(func(d *dataset) {
		out = detailViews(d, transactionID)
	})
	return out, nil
}

func (r transactionRepo) GetDetailForUpdate(_ context.Context, tenantID, detailID string) (*repository.DetailForReturn, error) {
	var out *repository.DetailForReturn
	r.s.read(func(d *dataset) {
		det, ok := d.details[detailID]
		if !ok {
			return
		}
		h, ok := d.headers[det.TransactionID]
		if !ok || h.TenantID != tenantID {
			return
		}
		out = &repository.DetailForReturn{
			TransactionDetail: det,
			TenantID:          h.TenantID,
			BranchID:          h.BranchID,
			TransactionStatus: h.Status,
			ProductType:       d.products[det.ProductID].Type,
		}
	})
	return out, nil
}

func (r transactionRepo) UpdateStatus(_ context.Context, tenantID, id, status string) error {
	return r.s.write(func(d *dataset) error {
		h, ok := d.headers[id]
		if !ok || h.TenantID != tenantID {
			return domain.ErrNotFound
		}
		h.Status = status
		h.UpdatedAt = time.Now()
		d.headers[id] = h
		return nil
	})
}

func (r transactionRepo) List(_ context.Context, f repository.TransactionFilter) ([]repository.TransactionSummary, error) {
	out := []repository.TransactionSummary{}
	r.s.read(func(d *dataset) {
		for _, h := range d.headers {
			if h.TenantID != f.TenantID {
				continue
			}
			if f.BranchID != "" && h.BranchID != f.BranchID {
				continue
			}
			if f.Status != "" && h.Status != f.Status {
				continue
			}
			count := 0
			for _, det := range d.details {
				if det.TransactionID == h.ID {
					count++
				}
			}
			out = append(out, repository.TransactionSummary{
				TransactionHeader: h,
				BranchName:        d.branches[h.BranchID].Name,
				DetailCount:       count,
			})
		}
	})
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	return page(out, limit, 0), nil
}

// ── Returns ──────────────────────────────────────────────────────────────────

type returnRepo struct{ s *Store }

func (r returnRepo) Create(_ context.Context, ret *entity.TransactionReturn) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.details[ret.TransactionDetailID]; !ok {
			return domain.ErrNotFound
		}
		d.returns[ret.ID] = *ret
		return nil
	})
}

func (r returnRepo) SumQtyByDetail(_ context.Context, detailID string) (int, error) {
	var total int
	r.s.read(func(d *dataset) {
		total = returnedQty(d, detailID)
	})
	return total, nil
}

func (r returnRepo) List(_ context.Context, tenantID, transactionID string) ([]repository.ReturnView, error) {
	out := []repository.ReturnView{}
	r.s.read(func(d *dataset) {
		for _, ret := range d.returns {
			det := d.details[ret.TransactionDetailID]
			h, ok := d.headers[det.TransactionID]
			if !ok || h.TenantID != tenantID {
				continue
			}
			if transactionID != "" && h.ID != transactionID {
				continue
			}
			p := d.products[det.ProductID]
			out = append(out, repository.ReturnView{
				TransactionReturn: ret,
				TransactionID:     h.ID,
				ProductID:         det.ProductID,
				ProductName:       p.Name,
				ProductSKU:        p.SKU,
			})
		}
	})
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

// ── Drafts ───────────────────────────────────────────────────────────────────

type draftRepo struct{ s *Store }

func (r draftRepo) Create(_ context.Context, dt *entity.DraftTransaction) error {
	return r.s.write(func(d *dataset) error {
		cp := *dt
		cp.DraftData = append([]byte(nil), dt.DraftData...)
		d.drafts[dt.ID] = cp
		return nil
	})
}

func (r draftRepo) GetByID(_ context.Context, tenantID, id string) (*entity.DraftTransaction, error) {
	var out *entity.DraftTransaction
	r.s.read(func(d *dataset) {
		if dt, ok := d.drafts[id]; ok && dt.TenantID == tenantID {
			out = &dt
		}
	})
	return out, nil
}

func (r draftRepo) List(_ context.Context, f repository.DraftFilter) ([]*entity.DraftTransaction, error) {
	var out []*entity.DraftTransaction
	r.s.read(func(d *dataset) {
		for _, dt := range d.drafts {
			dt := dt
			if dt.TenantID != f.TenantID {
				continue
			}
			if f.BranchID != "" && dt.BranchID != f.BranchID {
				continue
			}
			if f.CreatedBy != "" && dt.CreatedBy != f.CreatedBy {
				continue
			}
			out = append(out, &dt)
		}
	})
	sort.Slice(out, func(i, j int) bool { return newer(out[i].UpdatedAt, out[i].ID, out[j].UpdatedAt, out[j].ID) })
	return out, nil
}

func (r draftRepo) Update(_ context.Context, dt *entity.DraftTransaction) error {
	return r.s.write(func(d *dataset) error {
		cur, ok := d.drafts[dt.ID]
		if !ok || cur.TenantID != dt.TenantID {
			return domain.ErrNotFound
		}
		cur.CustomerPlate = dt.CustomerPlate
		cur.TotalAmount = dt.TotalAmount
		cur.DraftData = append([]byte(nil), dt.DraftData...)
		cur.UpdatedAt = dt.UpdatedAt
		d.drafts[dt.ID] = cur
		return nil
	})
}

func (r draftRepo) Delete(_ context.Context, tenantID, id string) error {
	return r.s.write(func(d *dataset) error {
		cur, ok := d.drafts[id]
		if !ok || cur.TenantID != tenantID {
			return domain.ErrNotFound
		}
		delete(d.drafts, id)
		return nil
	})
}

// ── Stock transfers ──────────────────────────────────────────────────────────

type transferRepo struct{ s *Store }

func (r transferRepo) Create(_ context.Context, t *entity.StockTransfer) error {
	return r.s.write(func(d *dataset) error {
		d.transfers[t.ID] = *t
		return nil
	})
}

func transferView(d *dataset, t entity.StockTransfer) repository.StockTransferView {
	p := d.products[t.ProductID]
	return repository.StockTransferView{
		StockTransfer:  t,
		ProductName:    p.Name,
		ProductSKU:     p.SKU,
		FromBranchName: d.branches[t.FromBranchID].Name,
		ToBranchName:   d.branches[t.ToBranchID].Name,
	}
}

func (r transferRepo) GetByID(_ context.Context, tenantID, id string) (*repository.StockTransferView, error) {
	var out *repository.StockTransferView
	r.s.read(func(d *dataset) {
		if t, ok := d.transfers[id]; ok && t.TenantID == tenantID {
			v := transferView(d, t)
			out = &v
		}
	})
	return out, nil
}

func (r transferRepo) List(_ context.Context, f repository.StockTransferFilter) ([]repository.StockTransferView, error) {
	out := []repository.StockTransferView{}
	r.s.read(func(d *dataset) {
		for _, t := range d.transfers {
			if t.TenantID != f.TenantID {
				continue
			}
			if f.BranchID != "" && t.FromBranchID != f.BranchID && t.ToBranchID != f.BranchID {
				continue
			}
			if f.ProductID != "" && t.ProductID != f.ProductID {
				continue
			}
			out = append(out, transferView(d, t))
		}
	})
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

// ── Reports ──────────────────────────────────────────────────────────────────

type reportRepo struct{ s *Store }

func inScope(h entity.TransactionHeader, s repository.ReportScope) bool {
	if h.TenantID != s.TenantID || h.Status != entity.TransactionPaid {
		return false
	}
	if s.BranchID != "" && h.BranchID != s.BranchID {
		return false
	}
	return !h.CreatedAt.Before(s.From) && h.CreatedAt.Before(s.To)
}

func (r reportRepo) PaidTransactions(_ context.Context, s repository.ReportScope) ([]repository.TransactionView, error) {
	out := []repository.TransactionView{}
	r.s.read(func(d *dataset) {
		for _, h := range d.headers {
			if inScope(h, s) {
				out = append(out, transactionView(d, h))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

func (r reportRepo) VehicleHistory(_ context.Context, tenantID, plate string) ([]repository.TransactionView, error) {
	out := []repository.TransactionView{}
	r.s.read(func(d *dataset) {
		for _, h := range d.headers {
			if h.TenantID == tenantID && h.CustomerPlate != nil && strings.EqualFold(*h.CustomerPlate, plate) {
				out = append(out, transactionView(d, h))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

func (r reportRepo) MechanicCommissions(_ context.Context, s repository.ReportScope) ([]repository.MechanicCommissionRow, error) {
	byMechanic := map[string]*repository.MechanicCommissionRow{}
	r.s.read(func(d *dataset) {
		for _, det := range d.details {
			if det.MechanicID == nil {
				continue
			}
			h, ok := d.headers[det.TransactionID]
			if !ok || !inScope(h, s) {
				continue
			}
			m, ok := d.mechanics[*det.MechanicID]
			if !ok {
				continue
			}
			row, ok := byMechanic[m.ID]
			if !ok {
				row = &repository.MechanicCommissionRow{MechanicID: m.ID, MechanicName: m.Name}
				if m.BranchID != nil {
					if b, ok := d.branches[*m.BranchID]; ok {
						name := b.Name
						row.BranchName = &name
					}
				}
				byMechanic[m.ID] = row
			}
			row.TotalJobs++
			row.TotalCommission = row.TotalCommission.Add(det.MechanicFee)
		}
	})
	out := make([]repository.MechanicCommissionRow, 0, len(byMechanic))
	for _, row := range byMechanic {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalCommission.Cmp(out[j].TotalCommission); c != 0 {
			return c > 0
		}
		return out[i].MechanicName < out[j].MechanicName
	})
	return out, nil
}

func (r reportRepo) TopProducts(_ context.Context, s repository.ReportScope, limit int) ([]repository.TopProductRow, error) {
	byProduct := map[string]*repository.TopProductRow{}
	seen := map[string]map[string]bool{}
	r.s.read(func(d *dataset) {
		for _, det := range d.details {
			h, ok := d.headers[det.TransactionID]
			if !ok || !inScope(h, s) {
				continue
			}
			row, ok := byProduct[det.ProductID]
			if !ok {
				p := d.products[det.ProductID]
				row = &repository.TopProductRow{ProductID: p.ID, SKU: p.SKU, Name: p.Name, Type: p.Type}
				byProduct[det.ProductID] = row
				seen[det.ProductID] = map[string]bool{}
			}
			row.TotalQty += det.Qty
			row.TotalRevenue = row.TotalRevenue.Add(det.Subtotal)
			if !seen[det.ProductID][h.ID] {
				seen[det.ProductID][h.ID] = true
				row.TransactionCount++
			}
		}
	})
	out := make([]repository.TopProductRow, 0, len(byProduct))
	for _, row := range byProduct {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalQty != out[j].TotalQty {
			return out[i].TotalQty > out[j].TotalQty
		}
		if c := out[i].TotalRevenue.Cmp(out[j].TotalRevenue); c != 0 {
			return c > 0
		}
		return out[i].SKU < out[j].SKU
	})
	return page(out, limit, 0), nil
}
